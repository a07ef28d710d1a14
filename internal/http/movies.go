package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Clark-Hu/filmdb/internal/domain"
	"github.com/Clark-Hu/filmdb/internal/repository"
)

// movieResponse renders a movie with its genre and director reduced to their names.
type movieResponse struct {
	ID          int64    `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Trailer     *string  `json:"trailer"`
	Year        *int     `json:"year"`
	Rating      *float64 `json:"rating"`
	Genre       *string  `json:"genre"`
	Director    *string  `json:"director"`
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Trailer:     movie.Trailer,
		Year:        movie.Year,
		Rating:      movie.Rating,
		Genre:       movie.GenreName,
		Director:    movie.DirectorName,
	}
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filters, err := buildMovieFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movies, err := s.repo.Movies.List(r.Context(), filters)
	if err != nil {
		s.respondRepoError(w, r, "movie", "", err)
		return
	}
	if len(movies) == 0 {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No movies found")
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, items)
}

// buildMovieFilters reads the optional genre_id and director_id query parameters.
func buildMovieFilters(query url.Values) (repository.MovieListFilters, error) {
	var filters repository.MovieListFilters

	params := []struct {
		key string
		dst **int64
	}{
		{"genre_id", &filters.GenreID},
		{"director_id", &filters.DirectorID},
	}
	for _, p := range params {
		val := strings.TrimSpace(query.Get(p.key))
		if val == "" {
			continue
		}
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return repository.MovieListFilters{}, fmt.Errorf("invalid %s value", p.key)
		}
		*p.dst = &id
	}
	return filters, nil
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var fields domain.MovieFields
	if err := decodeJSONBody(w, r, &fields); err != nil {
		if errors.Is(err, errEmptyBody) {
			s.respondEmptyInput(w, "movie")
			return
		}
		s.respondDecodeError(w, err)
		return
	}

	assigned := fields.Assigned()
	if len(assigned) == 0 {
		s.respondEmptyInput(w, "movie")
		return
	}
	if err := validateAssignments(assigned); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	id, err := s.repo.Movies.Create(r.Context(), fields)
	if err != nil {
		s.respondRepoError(w, r, "movie", "", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%d", id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "movie", raw, err)
		return
	}

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, r, "movie", raw, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

// handleUpdateMovie serves both PUT and PATCH: only the fields present in the
// body are overwritten.
func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "movie", raw, err)
		return
	}

	var fields domain.MovieFields
	if err := decodeJSONBody(w, r, &fields); err != nil {
		if s.rowMissing(w, r, "movie", raw, id, s.repo.Movies.Exists) {
			return
		}
		if errors.Is(err, errEmptyBody) {
			s.respondEmptyInput(w, "movie")
			return
		}
		s.respondDecodeError(w, err)
		return
	}
	if err := validateAssignments(fields.Assigned()); err != nil {
		if s.rowMissing(w, r, "movie", raw, id, s.repo.Movies.Exists) {
			return
		}
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.repo.Movies.Update(r.Context(), id, fields); err != nil {
		s.respondRepoError(w, r, "movie", raw, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "movie", raw, err)
		return
	}

	if err := s.repo.Movies.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, r, "movie", raw, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
