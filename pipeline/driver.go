package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/mosaic"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

// BeginJobMessage is sent on a channel to start a batch job.
const BeginJobMessage = "start"

// AbortJobMessage is sent on a channel to stop an in-progress job.
const AbortJobMessage = "stop"

// TileSource provides the grid tiles every mosaic must cover. Satisfied by
// catalog.Resolver.
type TileSource interface {
	Resolve(ctx context.Context) ([]model.TileID, error)
}

// MosaicBuilder builds one monthly mosaic. Satisfied by mosaic.Builder.
type MosaicBuilder interface {
	Build(ctx context.Context, spec mosaic.Spec) (string, error)
}

// Driver manages the state for a batch mosaic job.
type Driver struct {
	Builder        MosaicBuilder
	Tiles          TileSource
	DBConnProvider ConnectionProvider
	DestDir        string
	Concurrency    int
	LogContext     util.LogContext

	// Enumerate overrides the set of combinations to build; nil means every
	// combination with a full month of data behind it
	Enumerate func(now time.Time) []model.ParameterCombination

	mu     sync.Mutex
	status string
}

// GetStatus is a thread safe way to get information about the batch job.
func (d *Driver) GetStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == "" {
		return "No job has run yet"
	}
	return d.status
}

func (d *Driver) setStatus(status string) {
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
}

// RunWhile performs the Run() task on a schedule and waits for a channel.
// Note: this is blocking.
// The function exits when messageChan is closed and any in-progress job
// completes. To stop quickly, send AbortJobMessage before closing it.
func (d *Driver) RunWhile(ctx context.Context, messageChan <-chan string, maxTimeBetweenJobs time.Duration) {
	log.Println("Job loop started with frequency", maxTimeBetweenJobs)

	scheduleTimer := time.NewTimer(maxTimeBetweenJobs)

	var startJob bool
	for {
		startJob = false

		select {
		case <-ctx.Done():
			return
		case <-scheduleTimer.C:
			log.Println("Maximum time between jobs elapsed.")
			startJob = true
		case msg, ok := <-messageChan:
			if !ok {
				return
			}
			if msg == BeginJobMessage {
				log.Println("User requested job start.")
				startJob = true
			}
		}

		if startJob {
			d.Run(ctx, messageChan)

			scheduleTimer.Stop()
		TimerDrainLoop:
			for {
				select {
				case <-scheduleTimer.C: //good, discard
				default:
					break TimerDrainLoop
				}
			}
			scheduleTimer.Reset(maxTimeBetweenJobs)
		}
	}
}

// Run performs one batch pass: resolve the tile grid, open the ledger, walk
// every parameter combination and build the mosaics not yet on record. A
// failed combination is logged and skipped so one bad month cannot stall
// years of remaining work; it stays off the ledger and is retried on the
// next pass. The returned string summarizes the pass and is also available
// through GetStatus.
func (d *Driver) Run(ctx context.Context, messageChan <-chan string) string {
	started := time.Now()
	d.setStatus(fmt.Sprintf("Job started %v", started.Format("Mon Jan _2 15:04:05 2006")))

	tiles, err := d.Tiles.Resolve(ctx)
	if err != nil {
		return d.finish(started, 0, 0, 0, fmt.Sprintf("resolving tile grid failed: %v", err))
	}

	// Connection is opened right before the pass and closed immediately after
	database, err := d.DBConnProvider(d.LogContext)
	if err != nil {
		return d.finish(started, 0, 0, 0, fmt.Sprintf("opening ledger failed: %v", err))
	}
	defer database.Close()
	ledger := NewLedger(database)

	enumerate := d.Enumerate
	if enumerate == nil {
		enumerate = model.EnumerateParameters
	}
	combinations := enumerate(time.Now())

	var built, skipped, failed int
	for index, combination := range combinations {
		if aborted(ctx, messageChan) {
			return d.finish(started, built, skipped, failed, "aborted")
		}

		done, err := ledger.IsDone(combination)
		if err != nil {
			return d.finish(started, built, skipped, failed, fmt.Sprintf("ledger query failed: %v", err))
		}
		if done {
			skipped++
			continue
		}

		d.setStatus(fmt.Sprintf("Building %v (%v of %v; %v built, %v skipped, %v failed)",
			combination, index+1, len(combinations), built, skipped, failed))

		path, err := d.Builder.Build(ctx, mosaic.Spec{
			Product:     combination.Product,
			Year:        combination.Year,
			Month:       combination.Month,
			DayNight:    combination.DayNight,
			Tiles:       tiles,
			DestDir:     d.DestDir,
			Concurrency: d.Concurrency,
		})
		if err != nil {
			failed++
			util.LogAlert(d.LogContext, fmt.Sprintf("Mosaic %v failed: %v", combination, err))
			continue
		}

		if err := ledger.MarkDone(combination, path); err != nil {
			return d.finish(started, built, skipped, failed, fmt.Sprintf("recording %v failed: %v", combination, err))
		}
		built++
	}

	return d.finish(started, built, skipped, failed, "complete")
}

func (d *Driver) finish(started time.Time, built, skipped, failed int, outcome string) string {
	status := fmt.Sprintf("Job started %v, %v after %v: %v built, %v skipped, %v failed",
		started.Format("Mon Jan _2 15:04:05 2006"), outcome, time.Since(started).Round(time.Second),
		built, skipped, failed)
	d.setStatus(status)
	util.LogInfo(d.LogContext, status)
	return status
}

func aborted(ctx context.Context, messageChan <-chan string) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case msg, ok := <-messageChan:
		return !ok || msg == AbortJobMessage
	default:
		return false
	}
}
