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
	"embed"
	"encoding/json"

	"github.com/pkg/errors"
)

//go:embed mappings/*.json
var mappingFiles embed.FS

// Mapping is an opaque, already-decoded index-template definition. The
// engine never interprets its contents beyond structural equality
// comparison in Provisioner.EnsureIndex.
type Mapping map[string]any

// LoadMapping decodes one of the embedded mapping files ("filmwork",
// "genre", or "person").
func LoadMapping(name string) (Mapping, error) {
	data, err := mappingFiles.ReadFile("mappings/" + name + ".json")
	if err != nil {
		return nil, errors.Wrapf(err, "reading embedded mapping %q", name)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decoding embedded mapping %q", name)
	}
	return m, nil
}
