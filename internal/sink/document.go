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

// Package sink performs bulk upserts into Elasticsearch and provisions
// destination indices ahead of a pipeline's first iteration.
package sink

// Document is one item destined for a bulk upsert: its index name, its
// stable identifier (equal to the source entity's identifier, per spec
// §3), and its JSON-serializable body.
type Document struct {
	Index  string
	ID     string
	Source any
}
