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

// Package retry centralizes the exponential-backoff-with-jitter retry
// discipline shared by the source, sink, and watermark-store connectors.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// MaxInterval caps the delay between attempts, per spec §5.
const MaxInterval = 5 * time.Second

// Predicate reports whether err is transient and worth retrying. Each
// connector supplies its own, narrowed to the error classes it actually
// sees.
type Predicate func(error) bool

// Do calls fn until it succeeds, ctx is canceled, or fn returns an error
// that predicate rejects. A non-retryable error is returned immediately,
// wrapped with errors.WithStack.
func Do(ctx context.Context, predicate Predicate, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = MaxInterval
	bo.MaxElapsedTime = 0 // unbounded; ctx governs overall cancellation.

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !predicate(err) {
			return backoff.Permanent(errors.WithStack(err))
		}
		return err
	}, backoff.WithContext(bo, ctx))
}

// Attempts calls fn up to maxAttempts times, applying the shared
// exponential backoff between attempts. Used by the pipeline around the
// sink writer's bulk write, which is capped at 5 attempts rather than
// retried until ctx expires.
func Attempts(ctx context.Context, maxAttempts uint64, predicate Predicate, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = MaxInterval
	bo.MaxElapsedTime = 0

	limited := backoff.WithMaxRetries(bo, maxAttempts-1)

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !predicate(err) {
			return backoff.Permanent(errors.WithStack(err))
		}
		return err
	}, backoff.WithContext(limited, ctx))
}
