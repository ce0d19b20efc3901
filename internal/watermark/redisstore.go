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
	goerrors "errors"
	"io"
	"net"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// stateHashKey is the single Redis hash all pipeline keys live under.
const stateHashKey = "state"

// RedisStore is the KV-server watermark backend. All pipeline keys live
// as fields of the "state" hash, per spec §4.1.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected client. The caller owns the
// client's lifecycle (Close).
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Backend = (*RedisStore)(nil)

// Get implements Backend.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, stateHashKey, key).Result()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.WithStack(err)
	}
	return value, true, nil
}

// Set implements Backend.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, stateHashKey, key, value).Err(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// IsRetryable narrows retryable errors to busy-loading, connection, and
// timeout conditions, per spec §5.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		return true
	}
	// A connection dropped mid-command surfaces as an EOF.
	if goerrors.Is(err, io.EOF) || goerrors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	// go-redis surfaces the server's LOADING reply (dataset still being
	// loaded after a restart) as a plain error carrying the reply text.
	return strings.HasPrefix(err.Error(), "LOADING")
}
