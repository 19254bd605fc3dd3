package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/modis-lst-mosaic/catalog"
	"github.com/venicegeo/modis-lst-mosaic/composite"
	"github.com/venicegeo/modis-lst-mosaic/modis"
	"github.com/venicegeo/modis-lst-mosaic/mosaic"
	"github.com/venicegeo/modis-lst-mosaic/pipeline"
	"github.com/venicegeo/modis-lst-mosaic/raster"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

const runFrequencyEnv = "MOSAIC_RUN_FREQUENCY"
const defaultRunFrequency = 24 * time.Hour

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

//newDriver wires the full pipeline from environment configuration.
func newDriver(logContext util.LogContext) (*pipeline.Driver, error) {
	credentials, err := util.GetEarthdataCredentials(logContext)
	if err != nil {
		return nil, err
	}

	backend := raster.NewGDALBackend()
	composer := &composite.Composer{
		Fetcher:    modis.NewArchiveClient(util.GetArchiveURL(), credentials, logContext),
		Decoder:    modis.NewGDALDecoder(),
		Writer:     &raster.Writer{Backend: backend},
		LogContext: logContext,
	}

	return &pipeline.Driver{
		Builder: &mosaic.Builder{
			Composer:   composer,
			Backend:    backend,
			LogContext: logContext,
		},
		Tiles:          catalog.NewResolver(util.GetTileListURL(), logContext),
		DBConnProvider: getDbConnectionFunc,
		DestDir:        util.GetDestinationDir(logContext),
		Concurrency:    util.GetConcurrency(logContext),
		LogContext:     logContext,
	}, nil
}

//runOnceAction performs a single batch pass without scheduling.
func runOnceAction(*cli.Context) {
	logContext := &util.BasicLogContext{}
	driver, err := newDriver(logContext)
	if err != nil {
		log.Fatal("Could not configure the mosaic pipeline: ", err)
	}

	fmt.Println(driver.Run(context.Background(), nil))
}

//runScheduleAction starts the batch loop and an http server
func runScheduleAction(*cli.Context) {
	logContext := &util.BasicLogContext{}
	portStr := getPortStr()

	driver, err := newDriver(logContext)
	if err != nil {
		log.Fatal("Could not configure the mosaic pipeline: ", err)
	}

	//Create the channel that sends the start/stop messages to the Driver.
	messageChan := make(chan string, 5) //small buffer.

	//Start the sleep/build loop.
	go driver.RunWhile(context.Background(), messageChan, getTimerDuration())

	//Set up an http router
	router := mux.NewRouter()
	router.HandleFunc("/job/", func(resp http.ResponseWriter, req *http.Request) {
		handleJobStatus(driver, resp, req)
	})
	router.HandleFunc("/job/start", func(resp http.ResponseWriter, req *http.Request) {
		handleForceStartJob(driver, messageChan, resp, req)
	})
	router.HandleFunc("/job/cancel", func(resp http.ResponseWriter, req *http.Request) {
		handleCancel(driver, messageChan, resp, req)
	})

	log.Println("Listening on port", portStr)
	log.Fatal(http.ListenAndServe(portStr, router))
}

//handleJobStatus requests the status from the driver and writes it out.
func handleJobStatus(driver *pipeline.Driver, writer http.ResponseWriter, req *http.Request) {
	fmt.Fprintln(writer, driver.GetStatus())
}

//handleForceStartJob sends a "begin" message to the driver and returns the new status to the user.
func handleForceStartJob(driver *pipeline.Driver, messageChan chan<- string, writer http.ResponseWriter, req *http.Request) {
	select {
	case messageChan <- pipeline.BeginJobMessage:
		fmt.Fprintln(writer, "Begin job request submitted.")
	default:
		fmt.Fprintln(writer, "Error submitting request.")
	}
	fmt.Fprintln(writer, driver.GetStatus())
}

//handleCancel sends a "cancel" message to the driver and returns the new status to the user.
func handleCancel(driver *pipeline.Driver, cancelChan chan<- string, writer http.ResponseWriter, req *http.Request) {
	select {
	case cancelChan <- pipeline.AbortJobMessage:
		fmt.Fprintln(writer, "Cancel request submitted.")
	default:
		fmt.Fprintln(writer, "Error submitting cancel request.")
	}
	fmt.Fprintln(writer, driver.GetStatus())
}

func getTimerDuration() time.Duration {
	duration, _ := time.ParseDuration(os.Getenv(runFrequencyEnv))

	if duration < (time.Minute) {
		log.Printf("Specified duration of %v is too small. Setting to default.", duration)
		duration = defaultRunFrequency
	}

	return duration
}
