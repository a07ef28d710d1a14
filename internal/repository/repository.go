package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/filmdb/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrInvalidReference indicates a genre_id or director_id that points at no row.
	ErrInvalidReference = errors.New("repository: referenced row does not exist")
	// ErrInvalidValue indicates a value the column cannot hold.
	ErrInvalidValue = errors.New("repository: invalid column value")
)

// Repository aggregates all entity repositories.
type Repository struct {
	Movies    *MoviesRepository
	Directors *DirectorsRepository
	Genres    *GenresRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:    &MoviesRepository{pool: pool},
		Directors: &DirectorsRepository{table: table{pool: pool, name: "director"}},
		Genres:    &GenresRepository{table: table{pool: pool, name: "genre"}},
	}
}
