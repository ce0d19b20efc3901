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

package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMappingDecodesEmbeddedEntities(t *testing.T) {
	for _, name := range []string{"filmwork", "genre", "person"} {
		mapping, err := LoadMapping(name)
		require.NoError(t, err, name)
		assert.Contains(t, mapping, "mappings", name)
	}
}

func TestLoadMappingRejectsUnknownName(t *testing.T) {
	_, err := LoadMapping("does-not-exist")
	assert.Error(t, err)
}
