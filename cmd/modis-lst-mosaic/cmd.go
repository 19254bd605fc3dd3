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

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var commands = cli.Commands{
	cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the batch mosaic loop and its status webserver",
		Action:  runScheduleAction,
	},
	cli.Command{
		Name:    "run_once",
		Aliases: []string{"o"},
		Usage:   "Run a single batch pass and exit",
		Action:  runOnceAction,
	},
	cli.Command{
		Name:    "mosaic",
		Aliases: []string{"b"},
		Usage:   "Build one monthly mosaic",
		Flags:   mosaicFlags,
		Action:  mosaicAction,
	},
	cli.Command{
		Name:    "tiles",
		Aliases: []string{"t"},
		Usage:   "Print the land tile grid from the tile listing",
		Action:  tilesAction,
	},
	cli.Command{
		Name:    "params",
		Aliases: []string{"p"},
		Usage:   "Print every buildable parameter combination",
		Action:  paramsAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update ledger database schema",
		Action:  migrateDatabaseAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the mosaic CLI",
		Action:  versionAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "modis-lst-mosaic"
	app.Usage = "Build monthly land surface temperature mosaics"
	app.Commands = commands
	return
}
