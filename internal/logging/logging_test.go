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

package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsToInfoOnUnknownLevel(t *testing.T) {
	logger := New("not-a-level")
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestNewHonorsRequestedLevel(t *testing.T) {
	logger := New("debug")
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}

func TestForPipelineAttachesPipelineField(t *testing.T) {
	logger := New("info")
	entry := ForPipeline(logger, "filmwork")
	assert.Equal(t, "filmwork", entry.Data["pipeline"])
}
