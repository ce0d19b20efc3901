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

package main

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/movies-search/syncengine/internal/config"
	"github.com/movies-search/syncengine/internal/driver"
	"github.com/movies-search/syncengine/internal/logging"
	"github.com/movies-search/syncengine/internal/retry"
	"github.com/movies-search/syncengine/internal/sink"
	"github.com/movies-search/syncengine/internal/source"
	"github.com/movies-search/syncengine/internal/watermark"
)

// ProviderSet is used by Wire.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideSourcePool,
	ProvideElasticsearchClient,
	ProvideRedisClient,
	ProvideWatermarkBackend,
	ProvideSinkWriter,
	ProvideProvisioner,
	ProvidePipelines,
	ProvideDriver,
)

// ProvideLogger is called by Wire to construct the process-wide logger.
func ProvideLogger(cfg *config.Config) *log.Logger {
	return logging.New(cfg.LogLevel)
}

// ProvideSourcePool is called by Wire to open the Postgres connection
// pool, retrying transient connection failures per spec §5.
func ProvideSourcePool(ctx context.Context, cfg *config.Config) (*source.Reader, func(), error) {
	var reader *source.Reader
	var closePool func()
	err := retry.Do(ctx, source.IsRetryable, func() error {
		pool, err := source.OpenPool(ctx, cfg.PostgresDSN())
		if err != nil {
			return err
		}
		reader = source.NewReader(pool)
		closePool = pool.Close
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening source connection")
	}
	return reader, closePool, nil
}

// ProvideElasticsearchClient is called by Wire to build the sink's
// Elasticsearch client.
func ProvideElasticsearchClient(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticsearchURL()},
	})
	if err != nil {
		return nil, errors.Wrap(err, "constructing elasticsearch client")
	}
	return client, nil
}

// ProvideRedisClient is called by Wire to build the KV-store client for
// the watermark backend.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})
}

// ProvideWatermarkBackend is called by Wire to construct the shared
// watermark.Backend. The KV-server backend is primary; callers that
// want the local-file backend construct watermark.NewFileStore
// directly instead of calling this provider.
func ProvideWatermarkBackend(client *redis.Client) watermark.Backend {
	return watermark.NewRedisStore(client)
}

// ProvideSinkWriter is called by Wire to build the bulk-upsert writer.
func ProvideSinkWriter(client *elasticsearch.Client) *sink.Writer {
	return sink.NewWriter(client)
}

// ProvideProvisioner is called by Wire to build the schema provisioner.
func ProvideProvisioner(client *elasticsearch.Client, logger *log.Logger) *sink.Provisioner {
	return sink.NewProvisioner(client, logger.WithField("component", "provisioner"))
}

// ProvidePipelines is called by Wire to assemble the three entity
// pipelines.
func ProvidePipelines(
	cfg *config.Config,
	reader *source.Reader,
	backend watermark.Backend,
	writer *sink.Writer,
	provisioner *sink.Provisioner,
	logger *log.Logger,
) ([]driver.Named, error) {
	return buildPipelines(cfg, reader, backend, writer, provisioner, logger)
}

// ProvideDriver is called by Wire to assemble the supervising Driver.
func ProvideDriver(logger *log.Logger, pipelines []driver.Named) *driver.Driver {
	return driver.New(logger, pipelines...)
}
