// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package modis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/venicegeo/modis-lst-mosaic/model"
	"github.com/venicegeo/modis-lst-mosaic/util"
)

const downloadAttempts = 3

var retryDelay = 5 * time.Second

// dayDirPattern matches the per-day directory links in an archive listing
// page, e.g. href="2005.02.18/"
var dayDirPattern = regexp.MustCompile(`href="(\d{4}\.\d{2}\.\d{2})/?"`)

// hrefPattern pulls file links out of a day listing page
var hrefPattern = regexp.MustCompile(`href="([^"?/]+)"`)

// ArchiveClient fetches granules from the USGS LP DAAC data pool. Every
// request carries HTTP Basic credentials; the Earthdata login flow redirects
// through urs.earthdata.nasa.gov, so the client re-applies credentials on
// redirect (Go strips the Authorization header when the host changes).
type ArchiveClient struct {
	BaseURL     string
	Credentials util.Credentials
	LogContext  util.LogContext

	client *http.Client
}

// NewArchiveClient initializes an archive client for the given base URL
func NewArchiveClient(baseURL string, credentials util.Credentials, ctx util.LogContext) *ArchiveClient {
	jar, _ := cookiejar.New(nil)
	archive := &ArchiveClient{
		BaseURL:     baseURL,
		Credentials: credentials,
		LogContext:  ctx,
	}
	archive.client = &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Minute,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			req.SetBasicAuth(credentials.Username, credentials.Password)
			return nil
		},
	}
	return archive
}

// Fetch downloads every granule for the tile whose acquisition date falls in
// [first, last] into destDir. Transient download failures are retried a few
// times; anything still failing is fatal for the tile.
func (a *ArchiveClient) Fetch(ctx context.Context, product model.Product, tile model.TileID, first, last time.Time, destDir string) ([]Granule, error) {
	productURL := a.BaseURL
	if !strings.HasSuffix(productURL, "/") {
		productURL += "/"
	}
	productURL += product.ArchivePath + "/" + product.ID + "/"

	days, err := a.listDays(ctx, productURL, first, last)
	if err != nil {
		return nil, &FetchError{Product: product.ID, Tile: tile, URL: productURL, Err: err}
	}

	granules := []Granule{}
	for _, day := range days {
		dayURL := productURL + day.Format(model.ArchiveDateLayout) + "/"
		names, err := a.listGranules(ctx, dayURL, tile)
		if err != nil {
			return nil, &FetchError{Product: product.ID, Tile: tile, URL: dayURL, Err: err}
		}
		for _, name := range names {
			localPath := filepath.Join(destDir, name)
			if err := a.download(ctx, dayURL+name, localPath); err != nil {
				return nil, &FetchError{Product: product.ID, Tile: tile, URL: dayURL + name, Err: err}
			}
			acquired, err := acquisitionDate(name)
			if err != nil {
				return nil, &FetchError{Product: product.ID, Tile: tile, URL: dayURL + name, Err: err}
			}
			granules = append(granules, Granule{
				Product: product,
				Tile:    tile,
				Date:    acquired,
				Path:    localPath,
			})
		}
	}

	util.LogInfo(a.LogContext, fmt.Sprintf("Fetched %v granules for %v %v (%v..%v)",
		len(granules), product.ID, tile, first.Format("2006-01-02"), last.Format("2006-01-02")))
	return granules, nil
}

// listDays scrapes the product listing page for per-day directories inside
// the date range
func (a *ArchiveClient) listDays(ctx context.Context, productURL string, first, last time.Time) ([]time.Time, error) {
	body, err := a.get(ctx, productURL)
	if err != nil {
		return nil, err
	}

	days := []time.Time{}
	for _, match := range dayDirPattern.FindAllStringSubmatch(string(body), -1) {
		day, err := model.ParseArchiveDate(match[1])
		if err != nil {
			continue
		}
		if day.Before(first) || day.After(last) {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no archive days in range under %v", productURL)
	}
	return days, nil
}

// listGranules scrapes a day listing page for this tile's granule file
// (ignoring .xml sidecars and browse images)
func (a *ArchiveClient) listGranules(ctx context.Context, dayURL string, tile model.TileID) ([]string, error) {
	body, err := a.get(ctx, dayURL)
	if err != nil {
		return nil, err
	}

	names := []string{}
	seen := map[string]bool{}
	for _, match := range hrefPattern.FindAllStringSubmatch(string(body), -1) {
		name := match[1]
		if !model.IsGranuleName(name) || !strings.Contains(name, tile.String()) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// download streams one granule file to disk, retrying transient failures
func (a *ArchiveClient) download(ctx context.Context, fileURL, localPath string) error {
	var lastErr error
	for attempt := 1; attempt <= downloadAttempts; attempt++ {
		if lastErr = a.downloadOnce(ctx, fileURL, localPath); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		util.LogAlert(a.LogContext, fmt.Sprintf("Download attempt %v/%v failed for %v: %v",
			attempt, downloadAttempts, fileURL, lastErr))
		if attempt < downloadAttempts {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}

func (a *ArchiveClient) downloadOnce(ctx context.Context, fileURL, localPath string) error {
	response, err := a.do(ctx, fileURL)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, response.Body); err != nil {
		out.Close()
		os.Remove(localPath)
		return err
	}
	return out.Close()
}

func (a *ArchiveClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	response, err := a.do(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return io.ReadAll(response.Body)
}

// do performs an authenticated GET, mapping HTTP status classes to errors
func (a *ArchiveClient) do(ctx context.Context, requestURL string) (*http.Response, error) {
	if _, err := url.Parse(requestURL); err != nil {
		return nil, util.LogSimpleErr(a.LogContext, fmt.Sprintf("Failed to parse %v into a URL", requestURL), err)
	}
	request, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, util.LogSimpleErr(a.LogContext, fmt.Sprintf("Failed to make a new HTTP request for %v", requestURL), err)
	}
	request.SetBasicAuth(a.Credentials.Username, a.Credentials.Password)

	util.LogAudit(a.LogContext, util.LogAuditInput{Actor: "modis/ArchiveClient", Action: "GET", Actee: requestURL, Message: "Requesting data from LST archive", Severity: util.INFO})
	response, err := a.client.Do(request)
	if err != nil {
		return nil, err
	}

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		response.Body.Close()
		err := util.Error{
			LogMsg:     "Archive rejected the configured Earthdata credentials",
			SimpleMsg:  "Earthdata login failed; check EARTHDATA_USER and EARTHDATA_PASS",
			URL:        requestURL,
			HTTPStatus: response.StatusCode,
		}
		return nil, err.Log(a.LogContext, "Archive authentication failed")
	case (response.StatusCode >= 400) && (response.StatusCode < 500):
		response.Body.Close()
		err := util.Error{
			LogMsg:     "Archive request failed",
			SimpleMsg:  fmt.Sprintf("Archive request failed: %v", response.Status),
			URL:        requestURL,
			HTTPStatus: response.StatusCode,
		}
		return nil, err.Log(a.LogContext, "Archive request rejected")
	case response.StatusCode >= 500:
		response.Body.Close()
		return nil, util.LogSimpleErr(a.LogContext, "Archive server error", errors.New(response.Status))
	default:
		//no op
	}
	return response, nil
}

// acquisitionDate pulls the AYYYYDDD token out of a granule name
func acquisitionDate(name string) (time.Time, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("malformed granule name %q", name)
	}
	return model.ParseAcquisitionDay(parts[1])
}
