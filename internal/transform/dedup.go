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

package transform

// DedupByID implements a "last one wins" approach to removing documents
// with duplicate ids from a batch. Per spec §4.2, a batch where the
// final row's modified timestamp is shared by rows beyond the batch
// limit is expected and harmless, because re-delivery overwrites
// idempotently; this only guards against the same id appearing twice
// within a single read (e.g. a source defect), keeping a single bulk
// request from sending conflicting versions of one document out of
// order.
func DedupByID[T any](items []T, id func(T) string) []T {
	seenIdx := make(map[string]int, len(items))
	dest := len(items)
	for src := len(items) - 1; src >= 0; src-- {
		key := id(items[src])
		if _, found := seenIdx[key]; found {
			// A later (greater src index) occurrence is more recent in
			// read order; keep it and discard the earlier duplicate.
			continue
		}
		dest--
		seenIdx[key] = dest
		items[dest] = items[src]
	}
	return items[dest:]
}
