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

import (
	"time"

	"github.com/pkg/errors"
)

// FormatModified renders a row's watermark column as the ISO-8601
// string the watermark store persists. Rows decoded by pgx carry
// "modified" as time.Time; string values (e.g. from tests or a driver
// that doesn't decode timestamps) are passed through unchanged.
func FormatModified(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	case string:
		return t, nil
	default:
		return "", errors.Errorf("unsupported modified representation %T", v)
	}
}
