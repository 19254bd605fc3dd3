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
	"fmt"
	"log"
)

// Error is a rich error carrying both an operator-facing log message and a
// simpler message fit for surfacing to a user
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

func (e Error) Error() string {
	if e.SimpleMsg != "" {
		return e.SimpleMsg
	}
	return e.LogMsg
}

// Log writes the full detail of the error and returns the error itself so
// callers can `return err.Log(ctx, "prefix")`
func (e Error) Log(ctx LogContext, prefix string) error {
	message := e.LogMsg
	if prefix != "" {
		message = prefix + ": " + message
	}
	if e.URL != "" {
		message += fmt.Sprintf(" [url: %v]", e.URL)
	}
	if e.HTTPStatus != 0 {
		message += fmt.Sprintf(" [status: %v]", e.HTTPStatus)
	}
	if e.Response != "" {
		message += "\nResponse: " + e.Response
	}
	log.Output(2, fmt.Sprintf("[%v] %v: %v", ERROR, ctx.AppName(), message))
	return e
}

// HTTPErr is an error associated with an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

func (e HTTPErr) Error() string {
	return e.Message
}
