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

// Package config parses the sync engine's environment-variable
// configuration, following the teacher's Config/Bind/Preflight idiom.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// DefaultSyncTime is the bootstrap watermark used when a pipeline has
// never persisted one.
const DefaultSyncTime = "1970-01-01T00:00:00+00:00"

// Config holds every recognized option from spec.md §6.
type Config struct {
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	ElasticsearchHost string
	ElasticsearchPort int

	RedisHost string
	RedisPort int

	FilmWorkIndexName string
	GenresIndexName   string
	PersonsIndexName  string

	StateFilePath   string
	DefaultSyncTime string
	DefaultSleep    time.Duration

	LogLevel string
}

// Bind registers flags for every option. Each flag's default is the env
// var of the same name (upper-snake-cased), read when Bind is called, or
// a built-in default when that var is unset; an explicit flag overrides
// both. Call Load first so values from the .env file become defaults.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.PostgresHost, "postgres-host", envOr("POSTGRES_HOST", ""), "source Postgres host")
	flags.IntVar(&c.PostgresPort, "postgres-port", envInt("POSTGRES_PORT", 5432), "source Postgres port")
	flags.StringVar(&c.PostgresUser, "postgres-user", envOr("POSTGRES_USER", ""), "source Postgres user")
	flags.StringVar(&c.PostgresPassword, "postgres-password", envOr("POSTGRES_PASSWORD", ""), "source Postgres password")
	flags.StringVar(&c.PostgresDB, "postgres-db", envOr("POSTGRES_DB", ""), "source Postgres database")

	flags.StringVar(&c.ElasticsearchHost, "elasticsearch-host", envOr("ELASTICSEARCH_HOST", ""), "Elasticsearch host")
	flags.IntVar(&c.ElasticsearchPort, "elasticsearch-port", envInt("ELASTICSEARCH_PORT", 9200), "Elasticsearch port")

	flags.StringVar(&c.RedisHost, "redis-host", envOr("REDIS_HOST", ""), "watermark Redis host")
	flags.IntVar(&c.RedisPort, "redis-port", envInt("REDIS_PORT", 6379), "watermark Redis port")

	flags.StringVar(&c.FilmWorkIndexName, "filmwork-index-name", envOr("FILMWORK_INDEX_NAME", "movies"), "destination index for film-works")
	flags.StringVar(&c.GenresIndexName, "genres-index-name", envOr("GENRES_INDEX_NAME", "genres"), "destination index for genres")
	flags.StringVar(&c.PersonsIndexName, "persons-index-name", envOr("PERSONS_INDEX_NAME", "persons"), "destination index for persons")

	flags.StringVar(&c.StateFilePath, "state-file-path", envOr("STATE_FILE_PATH", "sync_state.json"), "file-backend watermark path")
	flags.StringVar(&c.DefaultSyncTime, "default-sync-time", envOr("DEFAULT_SYNC_TIME", DefaultSyncTime), "bootstrap watermark value")
	flags.DurationVar(&c.DefaultSleep, "default-sleep-time", envDuration("DEFAULT_SLEEP_TIME", 5*time.Second), "idle interval on empty batch")

	flags.StringVar(&c.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "logrus level")
}

// Load reads an optional .env file into the process environment before
// flags are bound. A missing file is not an error.
func Load(envFile string) error {
	if err := godotenv.Load(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "loading .env file")
	}
	return nil
}

// Preflight validates that every required option was supplied. Missing
// required configuration is a fatal, startup-time error per spec §7.
func (c *Config) Preflight() error {
	required := map[string]string{
		"postgres-host":      c.PostgresHost,
		"postgres-user":      c.PostgresUser,
		"postgres-db":        c.PostgresDB,
		"elasticsearch-host": c.ElasticsearchHost,
		"redis-host":         c.RedisHost,
	}
	for name, value := range required {
		if value == "" {
			return errors.Errorf("missing required configuration: %s", name)
		}
	}
	if c.DefaultSleep <= 0 {
		return errors.New("default-sleep-time must be positive")
	}
	return nil
}

// PostgresDSN builds a libpq-style DSN for pgxpool.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB,
	)
}

// ElasticsearchURL builds the HTTP-scheme endpoint for the ES client.
func (c *Config) ElasticsearchURL() string {
	return fmt.Sprintf("http://%s:%d", c.ElasticsearchHost, c.ElasticsearchPort)
}

// RedisAddr builds the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var seconds int
	if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
