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
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/movies-search/syncengine/internal/config"
	"github.com/movies-search/syncengine/internal/driver"
	"github.com/movies-search/syncengine/internal/logging"
	"github.com/movies-search/syncengine/internal/pipeline"
	"github.com/movies-search/syncengine/internal/sink"
	"github.com/movies-search/syncengine/internal/source"
	"github.com/movies-search/syncengine/internal/transform"
	"github.com/movies-search/syncengine/internal/watermark"
)

// buildPipelines assembles the filmwork, genres, and persons pipelines
// described in spec §3's entity table, wiring each to its own query,
// transformer, and watermark key, but sharing the watermark backend,
// sink writer, and provisioner.
func buildPipelines(
	cfg *config.Config,
	reader *source.Reader,
	backend watermark.Backend,
	writer *sink.Writer,
	provisioner *sink.Provisioner,
	logger *log.Logger,
) ([]driver.Named, error) {
	filmworkMapping, err := sink.LoadMapping("filmwork")
	if err != nil {
		return nil, err
	}
	genreMapping, err := sink.LoadMapping("genre")
	if err != nil {
		return nil, err
	}
	personMapping, err := sink.LoadMapping("person")
	if err != nil {
		return nil, err
	}

	state := watermark.NewState(backend, cfg.DefaultSyncTime)

	filmworkPipeline := pipeline.New(pipeline.Config{
		Name:          "filmwork",
		WatermarkKey:  "last_synced_time_filmwork",
		IndexName:     cfg.FilmWorkIndexName,
		Mapping:       filmworkMapping,
		SleepInterval: cfg.DefaultSleep,
		Read:          reader.ReadFilmWorks,
		Transform:     filmworkTransform,
		State:         state,
		Writer:        writer,
		Provisioner:   provisioner,
		Logger:        logging.ForPipeline(logger, "filmwork"),
	})

	genresPipeline := pipeline.New(pipeline.Config{
		Name:          "genres",
		WatermarkKey:  "last_synced_time_genres",
		IndexName:     cfg.GenresIndexName,
		Mapping:       genreMapping,
		SleepInterval: cfg.DefaultSleep,
		Read:          reader.ReadGenres,
		Transform:     genreTransform,
		State:         state,
		Writer:        writer,
		Provisioner:   provisioner,
		Logger:        logging.ForPipeline(logger, "genres"),
	})

	personsPipeline := pipeline.New(pipeline.Config{
		Name:          "persons",
		WatermarkKey:  "last_synced_time_persons",
		IndexName:     cfg.PersonsIndexName,
		Mapping:       personMapping,
		SleepInterval: cfg.DefaultSleep,
		Read:          reader.ReadPersons,
		Transform:     personTransform,
		State:         state,
		Writer:        writer,
		Provisioner:   provisioner,
		Logger:        logging.ForPipeline(logger, "persons"),
	})

	return []driver.Named{
		{Name: "filmwork", Pipeline: filmworkPipeline},
		{Name: "genres", Pipeline: genresPipeline},
		{Name: "persons", Pipeline: personsPipeline},
	}, nil
}

func filmworkTransform(row map[string]any) (any, string, string, error) {
	doc, err := transform.FilmWork(row)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "transforming filmwork")
	}
	modified, err := transform.FormatModified(row["modified"])
	if err != nil {
		return nil, "", "", errors.Wrap(err, "formatting filmwork.modified")
	}
	return doc, doc.ID.String(), modified, nil
}

func genreTransform(row map[string]any) (any, string, string, error) {
	doc, err := transform.Genre(row)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "transforming genre")
	}
	modified, err := transform.FormatModified(row["modified"])
	if err != nil {
		return nil, "", "", errors.Wrap(err, "formatting genre.modified")
	}
	// Documented asymmetry: genres are addressed by name downstream.
	return doc, doc.Name, modified, nil
}

func personTransform(row map[string]any) (any, string, string, error) {
	doc, err := transform.Person(row)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "transforming person")
	}
	modified, err := transform.FormatModified(row["modified"])
	if err != nil {
		return nil, "", "", errors.Wrap(err, "formatting person.modified")
	}
	return doc, doc.ID.String(), modified, nil
}
