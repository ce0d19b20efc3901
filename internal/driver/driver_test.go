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

package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPipeline struct {
	err     error
	blocked bool
}

func (s *stubPipeline) Run(ctx context.Context) error {
	if s.blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func TestRunSucceedsWhenAllPipelinesSucceed(t *testing.T) {
	d := New(log.New(),
		Named{Name: "a", Pipeline: &stubPipeline{}},
		Named{Name: "b", Pipeline: &stubPipeline{}},
	)

	err := d.Run(context.Background())
	require.NoError(t, err)
}

func TestRunSurvivesAPartialFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	d := New(log.New(),
		Named{Name: "failing", Pipeline: &stubPipeline{err: errors.New("boom")}},
		Named{Name: "healthy", Pipeline: &stubPipeline{blocked: true}},
	)

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	assert.NoError(t, err)
}

func TestRunFailsWhenEveryPipelineFails(t *testing.T) {
	d := New(log.New(),
		Named{Name: "a", Pipeline: &stubPipeline{err: errors.New("boom a")}},
		Named{Name: "b", Pipeline: &stubPipeline{err: errors.New("boom b")}},
	)

	err := d.Run(context.Background())
	require.Error(t, err)
}
