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

// Package metrics holds the Prometheus instrumentation for the sync
// engine. One instance of each vec is registered process-wide; callers
// select a pipeline with the "pipeline" label.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LatencyBuckets are the histogram buckets shared by every duration
// metric in this package.
var LatencyBuckets = []float64{
	.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30,
}

// PipelineLabels is the label set attached to every metric below.
var PipelineLabels = []string{"pipeline"}

var (
	// BatchDuration records how long a single read->transform->write
	// cycle took.
	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_batch_duration_seconds",
		Help:    "the length of time it took to process one batch",
		Buckets: LatencyBuckets,
	}, PipelineLabels)

	// DocumentsWritten counts documents successfully indexed.
	DocumentsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_documents_written_total",
		Help: "the number of documents successfully written to the sink",
	}, PipelineLabels)

	// DocumentsFailed counts per-document indexing failures reported by
	// the sink's bulk response.
	DocumentsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_documents_failed_total",
		Help: "the number of documents the sink reported as failed to index",
	}, PipelineLabels)

	// WatermarkAdvances counts successful watermark commits.
	WatermarkAdvances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_watermark_advance_total",
		Help: "the number of times a pipeline's watermark was advanced",
	}, PipelineLabels)

	// EmptyPolls counts iterations where the batch came back empty and
	// the pipeline slept.
	EmptyPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_empty_polls_total",
		Help: "the number of iterations that found no new rows",
	}, PipelineLabels)
)
