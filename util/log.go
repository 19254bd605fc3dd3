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

// Severity is a syslog-style message severity
type Severity int

// Recognized severities, most to least urgent
const (
	FATAL Severity = iota
	ERROR
	ALERT
	NOTICE
	INFO
	DEBUG
)

func (s Severity) String() string {
	switch s {
	case FATAL:
		return "FATAL"
	case ERROR:
		return "ERROR"
	case ALERT:
		return "ALERT"
	case NOTICE:
		return "NOTICE"
	case INFO:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// LogContext identifies the component on whose behalf a message is logged
type LogContext interface {
	AppName() string
}

// BasicLogContext is a LogContext with no interesting identity
type BasicLogContext struct {
	Name string
}

// AppName returns the component name, defaulting to the process name
func (c *BasicLogContext) AppName() string {
	if c.Name == "" {
		return "modis-lst-mosaic"
	}
	return c.Name
}

// LogAuditInput contains the details for an audit-style log message
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

// LogAudit writes an audit-style message recording who did what to whom
func LogAudit(ctx LogContext, input LogAuditInput) {
	log.Printf("[%v] %v: audit actor=%v action=%v actee=%v :: %v",
		input.Severity, ctx.AppName(), input.Actor, input.Action, input.Actee, input.Message)
}

// LogInfo writes an informational message
func LogInfo(ctx LogContext, message string) {
	log.Printf("[%v] %v: %v", INFO, ctx.AppName(), message)
}

// LogAlert writes a message about a condition that needs attention
// but does not by itself stop processing
func LogAlert(ctx LogContext, message string) {
	log.Printf("[%v] %v: %v", ALERT, ctx.AppName(), message)
}

// LogSimpleErr logs a message together with its underlying error and returns
// a single error combining both, suitable for returning to the caller
func LogSimpleErr(ctx LogContext, message string, err error) error {
	log.Printf("[%v] %v: %v: %v", ERROR, ctx.AppName(), message, err)
	return fmt.Errorf("%v: %w", message, err)
}
