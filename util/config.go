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

package util

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variables
const (
	EARTHDATA_USER     = "EARTHDATA_USER"
	EARTHDATA_PASS     = "EARTHDATA_PASS"
	MODIS_ARCHIVE_URL  = "MODIS_ARCHIVE_URL"
	MODIS_TILE_LIST    = "MODIS_TILE_LIST_URL"
	MOSAIC_DEST_DIR    = "MOSAIC_DEST_DIR"
	MOSAIC_CONCURRENCY = "MOSAIC_CONCURRENCY"
	MOSAIC_LEDGER_PATH = "MOSAIC_LEDGER_PATH"
	VCAP_SERVICES      = "VCAP_SERVICES"
)

const defaultArchiveURL = "https://e4ftl01.cr.usgs.gov/"
const defaultTileListURL = "https://ladsweb.modaps.eosdis.nasa.gov/archive/allData/6/MOD11A2/2005/001.csv"
const defaultLedgerPath = "mosaics.db"
const earthdataVcapService = "earthdata-creds"

// Credentials holds a NASA Earthdata username/password pair
type Credentials struct {
	Username string
	Password string
}

// GetEarthdataCredentials reads Earthdata credentials from EARTHDATA_USER /
// EARTHDATA_PASS, falling back to an `earthdata-creds` VCAP service
func GetEarthdataCredentials(ctx LogContext) (Credentials, error) {
	user, userOK := os.LookupEnv(EARTHDATA_USER)
	pass, passOK := os.LookupEnv(EARTHDATA_PASS)
	if userOK && passOK {
		return Credentials{Username: user, Password: pass}, nil
	}

	LogInfo(ctx, "No Earthdata credentials in environment, checking VCAP_SERVICES")
	services, err := ParseVcapServices([]byte(os.Getenv(VCAP_SERVICES)))
	if err != nil {
		return Credentials{}, errors.New("could not get Earthdata credentials from environment or VCAP_SERVICES: " + err.Error())
	}
	service := services.FindServiceByName(earthdataVcapService)
	if service == nil {
		return Credentials{}, fmt.Errorf("could not get Earthdata credentials; '%v' service not found in VCAP_SERVICES (available: %v)",
			earthdataVcapService, services.GetServiceNames())
	}
	if user, err = service.Credentials.String("username"); err != nil {
		return Credentials{}, err
	}
	if pass, err = service.Credentials.String("password"); err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: user, Password: pass}, nil
}

// GetArchiveURL returns the MODIS archive base URL
func GetArchiveURL() string {
	if archiveURL, ok := os.LookupEnv(MODIS_ARCHIVE_URL); ok {
		return archiveURL
	}
	return defaultArchiveURL
}

// GetTileListURL returns the URL of the reference tile listing CSV
func GetTileListURL() string {
	if listURL, ok := os.LookupEnv(MODIS_TILE_LIST); ok {
		return listURL
	}
	return defaultTileListURL
}

// GetDestinationDir returns the directory in which final mosaics are written
func GetDestinationDir(ctx LogContext) string {
	dir, ok := os.LookupEnv(MOSAIC_DEST_DIR)
	if !ok {
		LogAlert(ctx, "No destination directory in environment, using working directory")
		dir = "."
	}
	return dir
}

// GetConcurrency returns the number of tile composite workers per mosaic
func GetConcurrency(ctx LogContext) int {
	raw, ok := os.LookupEnv(MOSAIC_CONCURRENCY)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		LogAlert(ctx, fmt.Sprintf("Invalid %v value %q, using 1", MOSAIC_CONCURRENCY, raw))
		return 1
	}
	return n
}

// GetLedgerPath returns the path of the sqlite run ledger
func GetLedgerPath() string {
	if path, ok := os.LookupEnv(MOSAIC_LEDGER_PATH); ok {
		return path
	}
	return defaultLedgerPath
}
