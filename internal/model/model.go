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

// Package model contains the entity and destination-document types
// shared by the source reader, transformer, and sink writer.
package model

import "github.com/google/uuid"

// PersonRef is the nested id+name shape used in a FilmWorkDocument's
// directors, actors, and writers arrays.
type PersonRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FilmWorkDocument is the denormalized document written to the
// film-work index. Field order matches spec §4.3.
type FilmWorkDocument struct {
	ID             uuid.UUID   `json:"id"`
	IMDbRating     float64     `json:"imdb_rating"`
	Genres         []string    `json:"genres"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	DirectorsNames []string    `json:"directors_names"`
	ActorsNames    []string    `json:"actors_names"`
	WritersNames   []string    `json:"writers_names"`
	Directors      []PersonRef `json:"directors"`
	Actors         []PersonRef `json:"actors"`
	Writers        []PersonRef `json:"writers"`
}

// GenreDocument is written to the genre index. Its document _id is the
// genre name, not its UUID — a documented asymmetry carried from the
// source system.
type GenreDocument struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PersonDocument is written to the person index.
type PersonDocument struct {
	ID       uuid.UUID   `json:"id"`
	FullName string      `json:"full_name"`
	Movies   []uuid.UUID `json:"movies"`
}

// PersonRole is one of the three roles a person can hold on a
// film-work, as used in the source's persons aggregate.
type PersonRole string

// Recognized person roles on a film-work.
const (
	RoleDirector PersonRole = "director"
	RoleActor    PersonRole = "actor"
	RoleWriter   PersonRole = "writer"
)
