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

import "iter"

// Documents lazily applies fn to each row, yielding one document per
// input row. The sequence is finite and not restartable: it is meant to
// be ranged over exactly once per batch, per spec §9's streaming design
// note.
func Documents[T any](rows []map[string]any, fn func(map[string]any) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, row := range rows {
			doc, err := fn(row)
			if !yield(doc, err) {
				return
			}
		}
	}
}
