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
	"reflect"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provisioner ensures a destination index exists with the required
// mapping before a pipeline runs its first iteration, per spec §4.5.
type Provisioner struct {
	client *elasticsearch.Client
	logger *log.Entry
}

// NewProvisioner wraps an already-configured client.
func NewProvisioner(client *elasticsearch.Client, logger *log.Entry) *Provisioner {
	return &Provisioner{client: client, logger: logger}
}

// EnsureIndex creates indexName with mapping if absent. If present, it
// compares the live mapping to mapping field-for-field: equal is a
// no-op, different triggers a destructive delete-and-recreate. This is
// a known limitation — documents older than the current watermark are
// not automatically re-emitted after a recreate; see spec §9.
func (p *Provisioner) EnsureIndex(ctx context.Context, indexName string, mapping Mapping) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{indexName}}
	existsRes, err := existsReq.Do(ctx, p.client)
	if err != nil {
		return errors.Wrapf(err, "checking existence of index %q", indexName)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == 404 {
		return p.create(ctx, indexName, mapping)
	}

	live, err := p.liveMapping(ctx, indexName)
	if err != nil {
		return err
	}

	if reflect.DeepEqual(live, mapping["mappings"]) {
		p.logger.WithField("index", indexName).Debug("index already has the requested mapping")
		return nil
	}

	p.logger.WithField("index", indexName).Warn("index exists with a different mapping; recreating")

	del := esapi.IndicesDeleteRequest{Index: []string{indexName}}
	delRes, err := del.Do(ctx, p.client)
	if err != nil {
		return errors.Wrapf(err, "deleting index %q", indexName)
	}
	defer delRes.Body.Close()
	if delRes.IsError() {
		return errors.Errorf("deleting index %q: %s", indexName, delRes.String())
	}

	return p.create(ctx, indexName, mapping)
}

func (p *Provisioner) create(ctx context.Context, indexName string, mapping Mapping) error {
	body, err := json.Marshal(mapping)
	if err != nil {
		return errors.Wrapf(err, "encoding mapping for index %q", indexName)
	}

	req := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return errors.Wrapf(err, "creating index %q", indexName)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.Errorf("creating index %q: %s", indexName, res.String())
	}

	p.logger.WithField("index", indexName).Info("index created")
	return nil
}

func (p *Provisioner) liveMapping(ctx context.Context, indexName string) (any, error) {
	req := esapi.IndicesGetMappingRequest{Index: []string{indexName}}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching mapping for index %q", indexName)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Errorf("fetching mapping for index %q: %s", indexName, res.String())
	}

	var decoded map[string]struct {
		Mappings any `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrapf(err, "decoding mapping response for index %q", indexName)
	}
	entry, ok := decoded[indexName]
	if !ok {
		return nil, errors.Errorf("mapping response for index %q did not include it", indexName)
	}
	return entry.Mappings, nil
}
