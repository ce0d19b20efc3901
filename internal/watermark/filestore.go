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
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FileStore is the local-file watermark backend: a single JSON object
// at path. Concurrent access from within one process is serialized by
// mu, since multiple pipelines may share one FileStore instance.
type FileStore struct {
	path   string
	logger *log.Entry

	mu    sync.Mutex
	state map[string]string
}

var _ Backend = (*FileStore)(nil)

// NewFileStore loads the snapshot at path, if any. A missing or empty
// file yields an empty map; malformed content is logged and treated as
// empty rather than returned as an error, per spec §4.1.
func NewFileStore(path string, logger *log.Entry) *FileStore {
	s := &FileStore{path: path, logger: logger, state: map[string]string{}}
	s.reload()
	return s
}

func (s *FileStore) reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("could not read watermark state file; treating as empty")
		}
		return
	}
	if len(data) == 0 {
		return
	}
	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.WithError(err).Warn("malformed watermark state file; treating as empty")
		return
	}
	s.state = loaded
}

// Get implements Backend.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.state[key]
	return value, ok, nil
}

// Set implements Backend. It merges key into the in-memory snapshot and
// rewrites the file in full. If the file cannot be written, the
// snapshot is restored, so Get keeps returning the previous value.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.state[key]
	s.state[key] = value
	rollback := func() {
		if had {
			s.state[key] = prev
		} else {
			delete(s.state, key)
		}
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		rollback()
		return errors.Wrap(err, "marshaling watermark state")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		rollback()
		return errors.Wrap(err, "writing watermark state file")
	}
	return nil
}
