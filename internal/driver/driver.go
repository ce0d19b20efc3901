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

// Package driver launches all configured pipelines concurrently and
// surveys them for completion or failure, per spec §4.6 and §2's
// "Pipeline Driver."
package driver

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Runnable is the subset of *pipeline.Pipeline the Driver depends on;
// named separately so tests can supply a fake.
type Runnable interface {
	Run(ctx context.Context) error
}

// Named pairs a pipeline with the name used in failure logging.
type Named struct {
	Name     string
	Pipeline Runnable
}

// Driver runs a fixed set of pipelines in parallel, one goroutine each,
// matching the original Python's ThreadPoolExecutor(max_workers=3).
type Driver struct {
	pipelines []Named
	logger    *log.Logger
}

// New returns a Driver over pipelines.
func New(logger *log.Logger, pipelines ...Named) *Driver {
	return &Driver{pipelines: pipelines, logger: logger}
}

// Run launches every pipeline and blocks until all have terminated. A
// pipeline-local error is caught, logged, and terminates only that
// pipeline — the others continue, per spec §4.6. Run itself returns an
// error only if every pipeline failed; a partial failure is reported
// via the logger and a nil overall error, since the surviving pipelines
// are still making useful progress. Cancel ctx to stop all pipelines
// cooperatively.
func (d *Driver) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	failures := make([]string, 0, len(d.pipelines))
	var mu sync.Mutex

	for _, p := range d.pipelines {
		wg.Add(1)
		go func(p Named) {
			defer wg.Done()

			err := p.Pipeline.Run(ctx)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}

			d.logger.WithFields(log.Fields{
				"pipeline": p.Name,
				"error":    err,
			}).Error("pipeline terminated")

			mu.Lock()
			failures = append(failures, p.Name)
			mu.Unlock()
		}(p)
	}

	wg.Wait()

	if len(failures) == len(d.pipelines) && len(d.pipelines) > 0 {
		return pipelineFailureError{failed: failures}
	}
	return nil
}

type pipelineFailureError struct {
	failed []string
}

func (e pipelineFailureError) Error() string {
	msg := "all pipelines terminated: "
	for i, name := range e.failed {
		if i > 0 {
			msg += ", "
		}
		msg += name
	}
	return msg
}
