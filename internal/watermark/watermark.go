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

// Package watermark implements the durable high-water-mark store. Two
// interchangeable backends are provided: a Redis hash and a local JSON
// file. Both satisfy Backend, so the rest of the engine depends on the
// interface rather than on either concrete storage.
package watermark

import (
	"context"
)

// Backend is the pure Get/Set contract a watermark storage mechanism
// must satisfy. Get reports ok=false when the key has never been
// written — callers substitute their own bootstrap value rather than a
// baked-in sentinel.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// State wraps a Backend and converts absence into a caller-supplied
// bootstrap value, per spec §4.1.
type State struct {
	backend   Backend
	bootstrap string
}

// NewState returns a State that substitutes bootstrap for any key that
// backend has never persisted.
func NewState(backend Backend, bootstrap string) *State {
	return &State{backend: backend, bootstrap: bootstrap}
}

// Get returns the persisted value for key, or the bootstrap value if
// the key is absent or the persisted value is not a valid non-empty
// string.
func (s *State) Get(ctx context.Context, key string) (string, error) {
	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return s.bootstrap, nil
	}
	return value, nil
}

// Set persists value for key. This is the pipeline's single commit
// point: it must only be called after a batch has been durably written
// downstream.
func (s *State) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, key, value)
}
