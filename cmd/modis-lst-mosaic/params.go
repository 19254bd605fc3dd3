package main

import (
	"fmt"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/modis-lst-mosaic/model"
)

//paramsAction prints every parameter combination the batch loop would build.
func paramsAction(*cli.Context) {
	for _, combination := range model.EnumerateParameters(time.Now()) {
		fmt.Println(combination)
	}
}
