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

package watermark

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Entry {
	return log.NewEntry(log.New())
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path, testLogger())

	_, ok, err := store.Get(context.Background(), "last_synced_time_filmwork")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreMalformedFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path, testLogger())
	_, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreSetPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path, testLogger())

	require.NoError(t, store.Set(context.Background(), "last_synced_time_genres", "2024-05-01T00:00:00+00:00"))

	reloaded := NewFileStore(path, testLogger())
	v, ok, err := reloaded.Get(context.Background(), "last_synced_time_genres")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01T00:00:00+00:00", v)
}

func TestFileStoreSetKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path, testLogger())

	require.NoError(t, store.Set(context.Background(), "a", "1"))
	require.NoError(t, store.Set(context.Background(), "b", "2"))

	_, ok, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
}
