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
	"bytes"
	"context"
	"encoding/json"
	"net"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"
)

// Writer performs bulk upserts into Elasticsearch. It never returns an
// error for per-document indexing failures; those are counted and
// returned as failedCount, per spec §4.4.
type Writer struct {
	client *elasticsearch.Client
}

// NewWriter wraps an already-configured client.
func NewWriter(client *elasticsearch.Client) *Writer {
	return &Writer{client: client}
}

// bulkResponse mirrors the subset of the Elasticsearch bulk API
// response this writer needs.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// BulkWrite issues one bulk request for documents and reports how many
// succeeded and failed to index. An empty input is a no-op. A
// request-level failure (connection refused, timeout, any non-2xx
// response, or an undecodable body) returns a non-nil err — the
// pipeline treats that as catastrophic and does not advance its
// watermark.
func (w *Writer) BulkWrite(ctx context.Context, documents []Document) (successCount, failedCount int, err error) {
	if len(documents) == 0 {
		return 0, 0, nil
	}

	var body bytes.Buffer
	for _, doc := range documents {
		action := map[string]any{
			"index": map[string]any{
				"_index": doc.Index,
				"_id":    doc.ID,
			},
		}
		if err := writeJSONLine(&body, action); err != nil {
			return 0, 0, errors.Wrap(err, "encoding bulk action metadata")
		}
		if err := writeJSONLine(&body, doc.Source); err != nil {
			return 0, 0, errors.Wrap(err, "encoding bulk document source")
		}
	}

	req := esapi.BulkRequest{
		Body: bytes.NewReader(body.Bytes()),
	}
	res, err := req.Do(ctx, w.client)
	if err != nil {
		return 0, 0, errors.Wrap(err, "performing bulk request")
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, 0, errors.Errorf("bulk request failed: %s", res.String())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, 0, errors.Wrap(err, "decoding bulk response")
	}

	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error != nil || result.Status >= 300 {
				failedCount++
			} else {
				successCount++
			}
		}
	}

	return successCount, failedCount, nil
}

func writeJSONLine(buf *bytes.Buffer, v any) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(enc)
	buf.WriteByte('\n')
	return nil
}

// IsRetryable narrows retryable errors to connection and timeout
// conditions, per spec §5.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
