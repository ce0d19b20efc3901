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

// Command syncengine continuously replicates FilmWork, Genre, and
// Person rows from Postgres into Elasticsearch, per spec.md.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/movies-search/syncengine/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("syncengine exited with error")
		os.Exit(1)
	}
}

func run() error {
	envFile := pflag.String("env-file", ".env", "path to an optional .env file")
	// The configuration flags are bound only after the .env file is
	// loaded, so this first pass must not reject them as unknown.
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	pflag.Parse()

	if err := config.Load(*envFile); err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	cfg := &config.Config{}
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	if err := cfg.Preflight(); err != nil {
		return errors.Wrap(err, "validating configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDriver, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "initializing application")
	}
	defer cleanup()

	return appDriver.Run(ctx)
}
