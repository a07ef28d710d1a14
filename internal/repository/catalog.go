package repository

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/filmdb/internal/domain"
)

type namedRow struct {
	ID   int64
	Name *string
}

func (t table) getNamed(ctx context.Context, id int64) (namedRow, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name")
	sb.From(t.name)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var row namedRow
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&row.ID, &row.Name); err != nil {
		return namedRow{}, translateError(fmt.Sprintf("get %s %d", t.name, id), err)
	}
	return row, nil
}

func (t table) listNamed(ctx context.Context) ([]namedRow, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name")
	sb.From(t.name)
	sb.OrderBy("id").Asc()

	query, args := sb.Build()
	rows, err := t.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(fmt.Sprintf("list %s", t.name), err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[namedRow])
	if err != nil {
		return nil, translateError(fmt.Sprintf("list %s", t.name), err)
	}
	return items, nil
}

// DirectorsRepository provides persistence helpers for directors.
type DirectorsRepository struct {
	table table
}

// Create inserts a director and returns its id.
func (r *DirectorsRepository) Create(ctx context.Context, fields domain.DirectorFields) (int64, error) {
	return r.table.insert(ctx, fields.Assigned())
}

// GetByID fetches a director by its identifier.
func (r *DirectorsRepository) GetByID(ctx context.Context, id int64) (domain.Director, error) {
	row, err := r.table.getNamed(ctx, id)
	if err != nil {
		return domain.Director{}, err
	}
	return domain.Director(row), nil
}

// List returns every director ordered by id.
func (r *DirectorsRepository) List(ctx context.Context) ([]domain.Director, error) {
	rows, err := r.table.listNamed(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Director, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.Director(row))
	}
	return items, nil
}

// Update overwrites the fields present in the payload.
func (r *DirectorsRepository) Update(ctx context.Context, id int64, fields domain.DirectorFields) error {
	return r.table.update(ctx, id, fields.Assigned())
}

// Exists reports ErrNotFound when no director has the given id.
func (r *DirectorsRepository) Exists(ctx context.Context, id int64) error {
	return r.table.exists(ctx, id)
}

// Delete removes a director. Movies that referenced it keep existing with no director.
func (r *DirectorsRepository) Delete(ctx context.Context, id int64) error {
	return r.table.delete(ctx, id)
}

// GenresRepository provides persistence helpers for genres.
type GenresRepository struct {
	table table
}

// Create inserts a genre and returns its id.
func (r *GenresRepository) Create(ctx context.Context, fields domain.GenreFields) (int64, error) {
	return r.table.insert(ctx, fields.Assigned())
}

// GetByID fetches a genre by its identifier.
func (r *GenresRepository) GetByID(ctx context.Context, id int64) (domain.Genre, error) {
	row, err := r.table.getNamed(ctx, id)
	if err != nil {
		return domain.Genre{}, err
	}
	return domain.Genre(row), nil
}

// List returns every genre ordered by id.
func (r *GenresRepository) List(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.table.listNamed(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Genre, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.Genre(row))
	}
	return items, nil
}

// Update overwrites the fields present in the payload.
func (r *GenresRepository) Update(ctx context.Context, id int64, fields domain.GenreFields) error {
	return r.table.update(ctx, id, fields.Assigned())
}

// Exists reports ErrNotFound when no genre has the given id.
func (r *GenresRepository) Exists(ctx context.Context, id int64) error {
	return r.table.exists(ctx, id)
}

// Delete removes a genre. Movies that referenced it keep existing with no genre.
func (r *GenresRepository) Delete(ctx context.Context, id int64) error {
	return r.table.delete(ctx, id)
}
