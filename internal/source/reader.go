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

package source

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Reader executes the pipeline-specific parameterized queries against
// the source database and returns ordered row-maps, per spec §4.2.
type Reader struct {
	pool *pgxpool.Pool
}

// NewReader wraps an already-open pool.
func NewReader(pool *pgxpool.Pool) *Reader {
	return &Reader{pool: pool}
}

// Each query selects rows with modified > $1, orders strictly ascending
// by modified, and limits to $2. Related rows are aggregated
// server-side so one output row is one complete document.
const (
	filmworkQuery = `
SELECT
    fw.id,
    fw.title,
    fw.description,
    fw.imdb_rating,
    fw.type,
    fw.created,
    fw.modified,
    COALESCE(
        (SELECT array_agg(DISTINCT g.name)
           FROM content.genre_film_work gfw
           JOIN content.genre g ON g.id = gfw.genre_id
          WHERE gfw.film_work_id = fw.id),
        '{}'
    ) AS genres,
    COALESCE(
        (SELECT jsonb_agg(jsonb_build_object(
                    'person_role', pfw.role,
                    'person_id', p.id,
                    'person_name', p.full_name
                 ))
           FROM content.person_film_work pfw
           JOIN content.person p ON p.id = pfw.person_id
          WHERE pfw.film_work_id = fw.id),
        '[]'
    ) AS persons
FROM content.film_work fw
WHERE fw.modified > $1
ORDER BY fw.modified ASC
LIMIT $2`

	genreQuery = `
SELECT id, name, modified
FROM content.genre
WHERE modified > $1
ORDER BY modified ASC
LIMIT $2`

	personQuery = `
SELECT
    p.id,
    p.full_name,
    p.modified,
    COALESCE(
        (SELECT jsonb_agg(DISTINCT pfw.film_work_id)
           FROM content.person_film_work pfw
          WHERE pfw.person_id = p.id),
        '[]'
    ) AS movies
FROM content.person p
WHERE p.modified > $1
ORDER BY p.modified ASC
LIMIT $2`
)

// ReadFilmWorks returns film-work rows modified after watermark, in
// ascending modified order, limited to batchSize.
func (r *Reader) ReadFilmWorks(ctx context.Context, watermark string, batchSize int) ([]map[string]any, error) {
	return r.query(ctx, filmworkQuery, watermark, batchSize,
		[]string{"id", "title", "description", "imdb_rating", "type", "created", "modified", "genres", "persons"})
}

// ReadGenres returns genre rows modified after watermark.
func (r *Reader) ReadGenres(ctx context.Context, watermark string, batchSize int) ([]map[string]any, error) {
	return r.query(ctx, genreQuery, watermark, batchSize, []string{"id", "name", "modified"})
}

// ReadPersons returns person rows modified after watermark.
func (r *Reader) ReadPersons(ctx context.Context, watermark string, batchSize int) ([]map[string]any, error) {
	return r.query(ctx, personQuery, watermark, batchSize, []string{"id", "full_name", "modified", "movies"})
}

func (r *Reader) query(
	ctx context.Context, sql, watermark string, batchSize int, columns []string,
) ([]map[string]any, error) {
	rows, err := r.pool.Query(ctx, sql, watermark, batchSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
