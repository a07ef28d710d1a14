package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/filmdb/internal/domain"
	"github.com/Clark-Hu/filmdb/internal/store/storetest"
)

type testEnv struct {
	ctx        context.Context
	repository *Repository
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	pool := storetest.NewPool(t, "films_repo_test")
	return &testEnv{ctx: context.Background(), repository: NewWithPool(pool)}
}

func mustCreateMovie(t testing.TB, env *testEnv, fields domain.MovieFields) int64 {
	t.Helper()
	id, err := env.repository.Movies.Create(env.ctx, fields)
	if err != nil {
		t.Fatalf("create movie: %v", err)
	}
	return id
}

func mustCreateDirector(t testing.TB, env *testEnv, name string) int64 {
	t.Helper()
	id, err := env.repository.Directors.Create(env.ctx, domain.DirectorFields{Name: domain.NewField(name)})
	if err != nil {
		t.Fatalf("create director %q: %v", name, err)
	}
	return id
}

func mustCreateGenre(t testing.TB, env *testEnv, name string) int64 {
	t.Helper()
	id, err := env.repository.Genres.Create(env.ctx, domain.GenreFields{Name: domain.NewField(name)})
	if err != nil {
		t.Fatalf("create genre %q: %v", name, err)
	}
	return id
}

func TestMoviesRepository_CreateGetPlucksNames(t *testing.T) {
	env := newTestEnv(t)

	genreID := mustCreateGenre(t, env, "Sci-Fi")
	directorID := mustCreateDirector(t, env, "Denis Villeneuve")

	id := mustCreateMovie(t, env, domain.MovieFields{
		Title:      domain.NewField("Dune"),
		Year:       domain.NewField(2021),
		Rating:     domain.NewField(8.1),
		GenreID:    domain.NewField(genreID),
		DirectorID: domain.NewField(directorID),
	})

	movie, err := env.repository.Movies.GetByID(env.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, movie.ID)
	require.NotNil(t, movie.Title)
	assert.Equal(t, "Dune", *movie.Title)
	require.NotNil(t, movie.Year)
	assert.Equal(t, 2021, *movie.Year)
	require.NotNil(t, movie.Rating)
	assert.InDelta(t, 8.1, *movie.Rating, 1e-9)
	assert.Nil(t, movie.Description)
	assert.Nil(t, movie.Trailer)
	require.NotNil(t, movie.GenreName)
	assert.Equal(t, "Sci-Fi", *movie.GenreName)
	require.NotNil(t, movie.DirectorName)
	assert.Equal(t, "Denis Villeneuve", *movie.DirectorName)
}

func TestMoviesRepository_IDsAreUnique(t *testing.T) {
	env := newTestEnv(t)

	first := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("A")})
	second := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("A")})
	assert.NotEqual(t, first, second)
}

func TestMoviesRepository_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repository.Movies.GetByID(env.ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepositories_Exists(t *testing.T) {
	env := newTestEnv(t)
	movieID := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("Solaris")})
	directorID := mustCreateDirector(t, env, "Tarkovsky")
	genreID := mustCreateGenre(t, env, "Science fiction")

	require.NoError(t, env.repository.Movies.Exists(env.ctx, movieID))
	require.NoError(t, env.repository.Directors.Exists(env.ctx, directorID))
	require.NoError(t, env.repository.Genres.Exists(env.ctx, genreID))

	assert.ErrorIs(t, env.repository.Movies.Exists(env.ctx, movieID+100), ErrNotFound)
	assert.ErrorIs(t, env.repository.Directors.Exists(env.ctx, directorID+100), ErrNotFound)
	assert.ErrorIs(t, env.repository.Genres.Exists(env.ctx, genreID+100), ErrNotFound)
}

func TestMoviesRepository_ListFilters(t *testing.T) {
	env := newTestEnv(t)

	drama := mustCreateGenre(t, env, "Drama")
	comedy := mustCreateGenre(t, env, "Comedy")
	nolan := mustCreateDirector(t, env, "Nolan")
	coen := mustCreateDirector(t, env, "Coen")

	a := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("A"), GenreID: domain.NewField(drama), DirectorID: domain.NewField(nolan)})
	b := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("B"), GenreID: domain.NewField(drama), DirectorID: domain.NewField(coen)})
	c := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("C"), GenreID: domain.NewField(comedy), DirectorID: domain.NewField(coen)})
	d := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("D")})

	ids := func(movies []domain.Movie) []int64 {
		out := make([]int64, 0, len(movies))
		for _, m := range movies {
			out = append(out, m.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		filters MovieListFilters
		want    []int64
	}{
		{"none", MovieListFilters{}, []int64{a, b, c, d}},
		{"genre", MovieListFilters{GenreID: &drama}, []int64{a, b}},
		{"director", MovieListFilters{DirectorID: &coen}, []int64{b, c}},
		{"both", MovieListFilters{GenreID: &drama, DirectorID: &coen}, []int64{b}},
		{"no match", MovieListFilters{GenreID: &comedy, DirectorID: &nolan}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.repository.Movies.List(env.ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMoviesRepository_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	id := mustCreateMovie(t, env, domain.MovieFields{
		Title:       domain.NewField("Old"),
		Description: domain.NewField("keep me"),
		Year:        domain.NewField(1999),
	})

	err := env.repository.Movies.Update(env.ctx, id, domain.MovieFields{
		Title: domain.NewField("New"),
		Year:  domain.NullField[int](),
	})
	require.NoError(t, err)

	movie, err := env.repository.Movies.GetByID(env.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", *movie.Title)
	assert.Equal(t, "keep me", *movie.Description)
	assert.Nil(t, movie.Year)

	require.NoError(t, env.repository.Movies.Update(env.ctx, id, domain.MovieFields{}))
	require.ErrorIs(t, env.repository.Movies.Update(env.ctx, id+100, domain.MovieFields{}), ErrNotFound)
	require.ErrorIs(t, env.repository.Movies.Update(env.ctx, id+100, domain.MovieFields{Title: domain.NewField("x")}), ErrNotFound)
}

func TestMoviesRepository_Delete(t *testing.T) {
	env := newTestEnv(t)

	id := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("Gone")})
	require.NoError(t, env.repository.Movies.Delete(env.ctx, id))

	_, err := env.repository.Movies.GetByID(env.ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, env.repository.Movies.Delete(env.ctx, id), ErrNotFound)
}

func TestMoviesRepository_InvalidReference(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repository.Movies.Create(env.ctx, domain.MovieFields{
		Title:      domain.NewField("Orphan"),
		DirectorID: domain.NewField(int64(4242)),
	})
	require.ErrorIs(t, err, ErrInvalidReference)

	id := mustCreateMovie(t, env, domain.MovieFields{Title: domain.NewField("Valid")})
	err = env.repository.Movies.Update(env.ctx, id, domain.MovieFields{GenreID: domain.NewField(int64(4242))})
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestMoviesRepository_StringTooLong(t *testing.T) {
	env := newTestEnv(t)

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	_, err := env.repository.Movies.Create(env.ctx, domain.MovieFields{Title: domain.NewField(string(long))})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestDeletingReferencedRowsNullsMovieLinks(t *testing.T) {
	env := newTestEnv(t)

	genreID := mustCreateGenre(t, env, "Western")
	directorID := mustCreateDirector(t, env, "Leone")
	id := mustCreateMovie(t, env, domain.MovieFields{
		Title:      domain.NewField("The Good, the Bad and the Ugly"),
		GenreID:    domain.NewField(genreID),
		DirectorID: domain.NewField(directorID),
	})

	require.NoError(t, env.repository.Genres.Delete(env.ctx, genreID))
	require.NoError(t, env.repository.Directors.Delete(env.ctx, directorID))

	movie, err := env.repository.Movies.GetByID(env.ctx, id)
	require.NoError(t, err)
	assert.Nil(t, movie.GenreID)
	assert.Nil(t, movie.GenreName)
	assert.Nil(t, movie.DirectorID)
	assert.Nil(t, movie.DirectorName)
}

func TestNamedRepositories_CRUD(t *testing.T) {
	env := newTestEnv(t)

	directors, err := env.repository.Directors.List(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, directors)

	id := mustCreateDirector(t, env, "Kubrick")
	require.NoError(t, env.repository.Directors.Update(env.ctx, id, domain.DirectorFields{Name: domain.NewField("Stanley Kubrick")}))

	director, err := env.repository.Directors.GetByID(env.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Stanley Kubrick", *director.Name)

	directors, err = env.repository.Directors.List(env.ctx)
	require.NoError(t, err)
	require.Len(t, directors, 1)

	require.NoError(t, env.repository.Directors.Delete(env.ctx, id))
	_, err = env.repository.Directors.GetByID(env.ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	genreID := mustCreateGenre(t, env, "Horror")
	genres, err := env.repository.Genres.List(env.ctx)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, genreID, genres[0].ID)

	blank, err := env.repository.Genres.Create(env.ctx, domain.GenreFields{})
	require.NoError(t, err)
	genre, err := env.repository.Genres.GetByID(env.ctx, blank)
	require.NoError(t, err)
	assert.Nil(t, genre.Name)
}

func TestMoviesRepository_ConcurrentCreates(t *testing.T) {
	env := newTestEnv(t)

	const workers = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{}, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := env.repository.Movies.Create(env.ctx, domain.MovieFields{Title: domain.NewField(fmt.Sprintf("movie-%d", i))})
			if err != nil {
				t.Errorf("create movie-%d: %v", i, err)
				return
			}
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, workers)
}

func TestTranslateErrorKeepsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")
	err := translateError("get movie 1", cause)
	require.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "get movie 1: boom", err.Error())
}

func BenchmarkMoviesRepositoryCreate(b *testing.B) {
	env := newTestEnv(b)

	for i := 0; i < b.N; i++ {
		_, err := env.repository.Movies.Create(env.ctx, domain.MovieFields{
			Title: domain.NewField(fmt.Sprintf("Bench Movie %d", i)),
			Year:  domain.NewField(2020),
		})
		if err != nil {
			b.Fatalf("create movie: %v", err)
		}
	}
}
