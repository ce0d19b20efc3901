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

// Package pipeline implements the per-entity state machine described in
// spec §4.6: INIT -> PROVISION -> READ_WATERMARK -> QUERY -> (SLEEP |
// TRANSFORM -> WRITE -> ADVANCE) -> READ_WATERMARK, terminating only on
// an unhandled error.
package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/movies-search/syncengine/internal/metrics"
	"github.com/movies-search/syncengine/internal/retry"
	"github.com/movies-search/syncengine/internal/sink"
	"github.com/movies-search/syncengine/internal/transform"
	"github.com/movies-search/syncengine/internal/watermark"
)

// bulkWriteAttempts bounds the retries wrapping a single bulk write, per
// spec §5 ("the bulk-write operation itself is wrapped in up to 5
// attempts before surfacing").
const bulkWriteAttempts = 5

// ReadBatch executes the pipeline's parameterized query against the
// source, returning ordered row-maps modified strictly after the given
// watermark, limited to batchSize.
type ReadBatch func(ctx context.Context, watermark string, batchSize int) ([]map[string]any, error)

// Transform maps one source row into a destination document plus its
// stable id and the row's watermark-column value (as an ISO-8601
// string), per spec §4.3 and §4.6's ADVANCE state.
type Transform func(row map[string]any) (doc any, id string, modified string, err error)

// Config wires one entity's collaborators into a runnable Pipeline.
type Config struct {
	// Name identifies the pipeline in logs and metrics, e.g. "filmwork".
	Name string
	// WatermarkKey is the state-store key, e.g. "last_synced_time_filmwork".
	WatermarkKey string
	// IndexName is the destination Elasticsearch index.
	IndexName string
	// Mapping is this entity's index mapping, applied at PROVISION.
	Mapping sink.Mapping
	// BatchSize bounds each QUERY; defaults to 100 per spec §4.2.
	BatchSize int
	// SleepInterval is the idle wait on an empty batch; defaults to 5s.
	SleepInterval time.Duration

	Read        ReadBatch
	Transform   Transform
	State       *watermark.State
	Writer      *sink.Writer
	Provisioner *sink.Provisioner
	Logger      *log.Entry
}

// Pipeline runs one entity's read -> transform -> write -> advance
// loop. Execution within a Pipeline is strictly sequential; no two
// states overlap for the same instance, per spec §5.
type Pipeline struct {
	cfg Config
}

// New validates and wraps cfg into a runnable Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.SleepInterval <= 0 {
		cfg.SleepInterval = 5 * time.Second
	}
	return &Pipeline{cfg: cfg}
}

// fatalError marks an iterate failure as unrecoverable (spec §7 item 7):
// the pipeline itself terminates rather than retrying next loop.
// Recoverable error kinds (items 3 and 5) are logged and looped past
// instead of wrapped in this type.
type fatalError struct {
	err error
}

func (f fatalError) Error() string { return f.err.Error() }
func (f fatalError) Unwrap() error { return f.err }

// Run executes the state machine until ctx is canceled or an unhandled
// error occurs. A canceled context returns ctx.Err() without advancing
// the watermark for any in-flight batch, per spec §5's cancellation
// design note. Recoverable iteration failures (source-query errors,
// watermark write failures) are logged and the loop continues from the
// same watermark, per spec §7 items 3 and 5.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.provision(ctx); err != nil {
		return errors.Wrap(err, "provisioning destination index")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := p.iterate(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			var fatal fatalError
			if errors.As(err, &fatal) {
				return fatal.err
			}
			p.cfg.Logger.WithError(err).Warn("iteration failed; retrying next loop")
		}
	}
}

func (p *Pipeline) provision(ctx context.Context) error {
	return p.cfg.Provisioner.EnsureIndex(ctx, p.cfg.IndexName, p.cfg.Mapping)
}

// transformed bundles one Transform call's results so it can flow
// through transform.Documents, whose iterator yields a single value
// plus an error per row.
type transformed struct {
	doc      any
	id       string
	modified string
}

func (p *Pipeline) transformRow(row map[string]any) (transformed, error) {
	doc, id, modified, err := p.cfg.Transform(row)
	return transformed{doc: doc, id: id, modified: modified}, err
}

// iterate runs one READ_WATERMARK -> QUERY -> (SLEEP | TRANSFORM ->
// WRITE -> ADVANCE) cycle.
func (p *Pipeline) iterate(ctx context.Context) error {
	start := time.Now()

	var wm string
	err := retry.Do(ctx, watermark.IsRetryable, func() error {
		var getErr error
		wm, getErr = p.cfg.State.Get(ctx, p.cfg.WatermarkKey)
		return getErr
	})
	if err != nil {
		return errors.Wrap(err, "reading watermark")
	}
	p.cfg.Logger.WithField("watermark", wm).Debug("read watermark")

	rows, err := p.cfg.Read(ctx, wm, p.cfg.BatchSize)
	if err != nil {
		// Source-query error, spec §7 item 3: logged by the caller and
		// retried next iteration, not fatal to the pipeline.
		return errors.Wrap(err, "querying source batch")
	}

	if len(rows) == 0 {
		metrics.EmptyPolls.WithLabelValues(p.cfg.Name).Inc()
		return p.sleep(ctx)
	}

	documents := make([]sink.Document, 0, len(rows))
	var lastModified string
	for t, err := range transform.Documents(rows, p.transformRow) {
		if err != nil {
			// A transform failure is a data/mapping defect, not a
			// transient condition; it terminates the pipeline per §7
			// item 7 rather than silently skipping the row.
			return fatalError{errors.Wrap(err, "transforming row")}
		}
		documents = append(documents, sink.Document{Index: p.cfg.IndexName, ID: t.id, Source: t.doc})
		lastModified = t.modified
	}

	var successCount, failedCount int
	writeErr := retry.Attempts(ctx, bulkWriteAttempts, sink.IsRetryable, func() error {
		var attemptErr error
		successCount, failedCount, attemptErr = p.cfg.Writer.BulkWrite(ctx, documents)
		return attemptErr
	})
	if writeErr != nil {
		// Catastrophic failure even after retries: the watermark must
		// not advance, per spec §4.4 and §7 item 5. The same batch will
		// be re-read and re-written on the next iteration; writes are
		// idempotent by _id.
		return errors.Wrap(writeErr, "bulk writing batch")
	}

	metrics.DocumentsWritten.WithLabelValues(p.cfg.Name).Add(float64(successCount))
	if failedCount > 0 {
		metrics.DocumentsFailed.WithLabelValues(p.cfg.Name).Add(float64(failedCount))
		p.cfg.Logger.WithField("failed", failedCount).Warn("some documents failed to index")
	}

	// Per spec §7 item 4 / §9's open question, per-document failures do
	// not withhold the watermark: the contract is at-least-once, and
	// the source draft this was distilled from advances unconditionally
	// after a non-catastrophic bulk response.
	if err := retry.Do(ctx, watermark.IsRetryable, func() error {
		return p.cfg.State.Set(ctx, p.cfg.WatermarkKey, lastModified)
	}); err != nil {
		// Watermark write failure, spec §7 item 5: the iteration fails
		// and will be retried from the same watermark next loop; writes
		// already performed are harmless because they are idempotent by
		// _id.
		return errors.Wrap(err, "advancing watermark")
	}
	metrics.WatermarkAdvances.WithLabelValues(p.cfg.Name).Inc()

	metrics.BatchDuration.WithLabelValues(p.cfg.Name).Observe(time.Since(start).Seconds())
	p.cfg.Logger.WithField("count", len(documents)).WithField("watermark", lastModified).
		Debug("advanced watermark")

	return nil
}

func (p *Pipeline) sleep(ctx context.Context) error {
	timer := time.NewTimer(p.cfg.SleepInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
