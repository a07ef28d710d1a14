package repository

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmdb/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

var movieColumns = []string{
	"m.id",
	"m.title",
	"m.description",
	"m.trailer",
	"m.year",
	"m.rating",
	"m.genre_id",
	"m.director_id",
	"g.name",
	"d.name",
}

// MovieListFilters narrows List. Nil filters are ignored; set filters are ANDed.
type MovieListFilters struct {
	GenreID    *int64
	DirectorID *int64
}

func (r *MoviesRepository) rows() table {
	return table{pool: r.pool, name: "movie"}
}

func newMovieSelect() *sqlbuilder.SelectBuilder {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(movieColumns...)
	sb.From("movie AS m")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "genre AS g", "g.id = m.genre_id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "director AS d", "d.id = m.director_id")
	return sb
}

// Create inserts a new movie row from the supplied fields and returns its id.
func (r *MoviesRepository) Create(ctx context.Context, fields domain.MovieFields) (int64, error) {
	return r.rows().insert(ctx, fields.Assigned())
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	sb := newMovieSelect()
	sb.Where(sb.Equal("m.id", id))

	query, args := sb.Build()
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Movie{}, translateError(fmt.Sprintf("get movie %d", id), err)
	}
	return movie, nil
}

// List returns movies that match the provided filters ordered by id.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) ([]domain.Movie, error) {
	sb := newMovieSelect()
	where := make([]string, 0, 2)
	if filters.GenreID != nil {
		where = append(where, sb.Equal("m.genre_id", *filters.GenreID))
	}
	if filters.DirectorID != nil {
		where = append(where, sb.Equal("m.director_id", *filters.DirectorID))
	}
	if len(where) > 0 {
		sb.Where(where...)
	}
	sb.OrderBy("m.id").Asc()

	query, args := sb.Build()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list movies", err)
	}
	defer rows.Close()

	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, translateError("list movies", err)
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list movies", err)
	}
	return items, nil
}

// Update overwrites the fields present in the payload, leaving the rest intact.
func (r *MoviesRepository) Update(ctx context.Context, id int64, fields domain.MovieFields) error {
	return r.rows().update(ctx, id, fields.Assigned())
}

// Exists reports ErrNotFound when no movie has the given id.
func (r *MoviesRepository) Exists(ctx context.Context, id int64) error {
	return r.rows().exists(ctx, id)
}

// Delete removes a movie row.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) error {
	return r.rows().delete(ctx, id)
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Trailer,
		&movie.Year,
		&movie.Rating,
		&movie.GenreID,
		&movie.DirectorID,
		&movie.GenreName,
		&movie.DirectorName,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
