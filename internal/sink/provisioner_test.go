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
	"context"
	"fmt"
	"net/http"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Entry {
	return log.NewEntry(log.New())
}

func TestEnsureIndexCreatesWhenAbsent(t *testing.T) {
	created := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			created = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	provisioner := NewProvisioner(client, testLogger())
	mapping := Mapping{"mappings": map[string]any{"properties": map[string]any{"title": map[string]any{"type": "text"}}}}

	require.NoError(t, provisioner.EnsureIndex(context.Background(), "movies", mapping))
	require.True(t, created)
}

func TestEnsureIndexIsNoOpWhenMappingMatches(t *testing.T) {
	mapping := Mapping{"mappings": map[string]any{"properties": map[string]any{"title": map[string]any{"type": "text"}}}}

	deleted := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"movies": {"mappings": {"properties": {"title": {"type": "text"}}}}}`)
		case r.Method == http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	provisioner := NewProvisioner(client, testLogger())
	require.NoError(t, provisioner.EnsureIndex(context.Background(), "movies", mapping))
	require.False(t, deleted)
}

func TestEnsureIndexRecreatesWhenMappingDiffers(t *testing.T) {
	mapping := Mapping{"mappings": map[string]any{"properties": map[string]any{"title": map[string]any{"type": "keyword"}}}}

	deleted, created := false, false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"movies": {"mappings": {"properties": {"title": {"type": "text"}}}}}`)
		case r.Method == http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut:
			created = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	provisioner := NewProvisioner(client, testLogger())
	require.NoError(t, provisioner.EnsureIndex(context.Background(), "movies", mapping))
	require.True(t, deleted)
	require.True(t, created)
}
