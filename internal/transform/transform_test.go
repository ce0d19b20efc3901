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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilmWorkPartitionsPersonsByRole(t *testing.T) {
	filmID := uuid.New()
	directorID := uuid.New()
	actorID := uuid.New()
	writerID := uuid.New()

	row := map[string]any{
		"id":          filmID,
		"imdb_rating": float64(8.4),
		"title":       "Arrival",
		"description": "A linguist is recruited by the military.",
		"genres":      []any{"Sci-Fi", "Drama"},
		"persons": []any{
			map[string]any{"person_role": "director", "person_id": directorID, "person_name": "Denis Villeneuve"},
			map[string]any{"person_role": "actor", "person_id": actorID, "person_name": "Amy Adams"},
			map[string]any{"person_role": "writer", "person_id": writerID, "person_name": "Eric Heisserer"},
		},
	}

	doc, err := FilmWork(row)
	require.NoError(t, err)

	assert.Equal(t, filmID, doc.ID)
	assert.Equal(t, []string{"Sci-Fi", "Drama"}, doc.Genres)
	assert.Equal(t, []string{"Denis Villeneuve"}, doc.DirectorsNames)
	assert.Equal(t, []string{"Amy Adams"}, doc.ActorsNames)
	assert.Equal(t, []string{"Eric Heisserer"}, doc.WritersNames)
	require.Len(t, doc.Writers, 1)
	assert.Equal(t, writerID, doc.Writers[0].ID)
}

func TestFilmWorkWithNoPersonsYieldsEmptyRoleSlices(t *testing.T) {
	filmID := uuid.New()
	row := map[string]any{
		"id":          filmID,
		"imdb_rating": float64(5.0),
		"title":       "Unknown",
		"description": "",
		"genres":      nil,
		"persons":     nil,
	}

	doc, err := FilmWork(row)
	require.NoError(t, err)
	assert.Nil(t, doc.Directors)
	assert.Nil(t, doc.Actors)
	assert.Nil(t, doc.Writers)
}

func TestGenreKeepsIDAndName(t *testing.T) {
	genreID := uuid.New()
	doc, err := Genre(map[string]any{"id": genreID, "name": "Sci-Fi"})
	require.NoError(t, err)
	assert.Equal(t, genreID, doc.ID)
	assert.Equal(t, "Sci-Fi", doc.Name)
}

func TestPersonAggregatesMovies(t *testing.T) {
	personID := uuid.New()
	movie1, movie2 := uuid.New(), uuid.New()

	doc, err := Person(map[string]any{
		"id":        personID,
		"full_name": "Amy Adams",
		"movies":    []any{movie1, movie2},
	})
	require.NoError(t, err)
	assert.Equal(t, personID, doc.ID)
	assert.Equal(t, []uuid.UUID{movie1, movie2}, doc.Movies)
}

func TestFilmWorkRejectsMalformedID(t *testing.T) {
	_, err := FilmWork(map[string]any{"id": 42, "persons": nil, "genres": nil})
	assert.Error(t, err)
}

func TestFormatModifiedFromTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	s, err := FormatModified(ts)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:30:00Z", s)
}

func TestFormatModifiedFromString(t *testing.T) {
	s, err := FormatModified("2024-03-01T12:30:00+00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:30:00+00:00", s)
}

func TestFormatModifiedRejectsUnsupportedType(t *testing.T) {
	_, err := FormatModified(42)
	assert.Error(t, err)
}

func TestDedupByIDKeepsLastOccurrence(t *testing.T) {
	type row struct {
		ID   string
		Rank int
	}
	items := []row{{ID: "a", Rank: 1}, {ID: "b", Rank: 1}, {ID: "a", Rank: 2}}
	out := DedupByID(items, func(r row) string { return r.ID })

	byID := map[string]int{}
	for _, r := range out {
		byID[r.ID] = r.Rank
	}
	assert.Len(t, out, 2)
	assert.Equal(t, 2, byID["a"])
	assert.Equal(t, 1, byID["b"])
}
