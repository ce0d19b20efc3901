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

// Package transform maps source row-maps into destination documents.
// Every function here is pure: no I/O, no side effects, one emitted
// document per source row.
package transform

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/movies-search/syncengine/internal/model"
)

// FilmWork maps one film-work row into its denormalized document. The
// row's "persons" field is a list of {person_role, person_id,
// person_name} maps; it is partitioned by role in a single pass, into
// both flat name arrays and nested id+name arrays. Access is uniformly
// keyed — an earlier draft of this transform indexed persons
// positionally and silently dropped writers; that bug does not exist
// here.
func FilmWork(row map[string]any) (model.FilmWorkDocument, error) {
	id, err := asUUID(row["id"])
	if err != nil {
		return model.FilmWorkDocument{}, errors.Wrap(err, "film_work.id")
	}

	persons, err := asSliceOfMaps(row["persons"])
	if err != nil {
		return model.FilmWorkDocument{}, errors.Wrap(err, "film_work.persons")
	}
	genres, err := asStringSlice(row["genres"])
	if err != nil {
		return model.FilmWorkDocument{}, errors.Wrap(err, "film_work.genres")
	}

	doc := model.FilmWorkDocument{
		ID:          id,
		IMDbRating:  asFloat(row["imdb_rating"]),
		Genres:      genres,
		Title:       asString(row["title"]),
		Description: asString(row["description"]),
	}

	for _, person := range persons {
		role := model.PersonRole(asString(person["person_role"]))
		name := asString(person["person_name"])
		personID, err := asUUID(person["person_id"])
		if err != nil {
			return model.FilmWorkDocument{}, errors.Wrap(err, "film_work.persons.person_id")
		}
		ref := model.PersonRef{ID: personID, Name: name}

		switch role {
		case model.RoleDirector:
			doc.DirectorsNames = append(doc.DirectorsNames, name)
			doc.Directors = append(doc.Directors, ref)
		case model.RoleActor:
			doc.ActorsNames = append(doc.ActorsNames, name)
			doc.Actors = append(doc.Actors, ref)
		case model.RoleWriter:
			doc.WritersNames = append(doc.WritersNames, name)
			doc.Writers = append(doc.Writers, ref)
		}
	}

	return doc, nil
}

// Genre maps one genre row into its document. The document's stable
// identifier downstream is the genre's name, not its id — a documented
// asymmetry carried from the source system (spec §4.3).
func Genre(row map[string]any) (model.GenreDocument, error) {
	id, err := asUUID(row["id"])
	if err != nil {
		return model.GenreDocument{}, errors.Wrap(err, "genre.id")
	}
	return model.GenreDocument{
		ID:   id,
		Name: asString(row["name"]),
	}, nil
}

// Person maps one person row into its document.
func Person(row map[string]any) (model.PersonDocument, error) {
	id, err := asUUID(row["id"])
	if err != nil {
		return model.PersonDocument{}, errors.Wrap(err, "person.id")
	}
	movies, err := asUUIDSlice(row["movies"])
	if err != nil {
		return model.PersonDocument{}, errors.Wrap(err, "person.movies")
	}
	return model.PersonDocument{
		ID:       id,
		FullName: asString(row["full_name"]),
		Movies:   movies,
	}, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}

func asUUID(v any) (uuid.UUID, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case [16]byte:
		return uuid.UUID(t), nil
	case string:
		return uuid.Parse(t)
	default:
		return uuid.Nil, errors.Errorf("unsupported uuid representation %T", v)
	}
}

func asStringSlice(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, asString(item))
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported string-slice representation %T", v)
	}
}

func asUUIDSlice(v any) ([]uuid.UUID, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]uuid.UUID, 0, len(t))
		for _, item := range t {
			id, err := asUUID(item)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported uuid-slice representation %T", v)
	}
}

func asSliceOfMaps(v any) ([]map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return t, nil
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.Errorf("unsupported element representation %T", item)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported slice-of-maps representation %T", v)
	}
}
