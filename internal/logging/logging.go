// Copyright 2024 The Movies Search Sync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package logging constructs the process-wide structured logger and
// threads it into components by dependency injection, rather than via a
// package-level global.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured for structured, leveled output.
// Callers inject the result (or a field-scoped *log.Entry derived from
// it) into each component's constructor.
func New(level string) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// ForPipeline returns a logger entry pre-populated with the pipeline's
// name, matching the teacher's log.WithFields(log.Fields{"schema": ...})
// idiom.
func ForPipeline(logger *log.Logger, name string) *log.Entry {
	return logger.WithField("pipeline", name)
}
