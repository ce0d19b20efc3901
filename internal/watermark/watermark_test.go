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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	values map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{values: map[string]string{}}
}

func (f *fakeBackend) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeBackend) Set(_ context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

func TestStateGetSubstitutesBootstrapWhenAbsent(t *testing.T) {
	state := NewState(newFakeBackend(), "1970-01-01T00:00:00+00:00")

	v, err := state.Get(context.Background(), "last_synced_time_filmwork")
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01T00:00:00+00:00", v)
}

func TestStateGetReturnsPersistedValue(t *testing.T) {
	backend := newFakeBackend()
	state := NewState(backend, "bootstrap")

	require.NoError(t, state.Set(context.Background(), "k", "2024-01-01T00:00:00Z"))

	v, err := state.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z", v)
}

func TestStateGetSubstitutesBootstrapForEmptyValue(t *testing.T) {
	backend := newFakeBackend()
	backend.values["k"] = ""
	state := NewState(backend, "bootstrap")

	v, err := state.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", v)
}
