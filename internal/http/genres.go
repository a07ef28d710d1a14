package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Clark-Hu/filmdb/internal/domain"
)

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.repo.Genres.List(r.Context())
	if err != nil {
		s.respondRepoError(w, r, "genre", "", err)
		return
	}
	if len(genres) == 0 {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No genres found")
		return
	}

	items := make([]namedResponse, 0, len(genres))
	for _, g := range genres {
		items = append(items, namedResponse{ID: g.ID, Name: g.Name})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request) {
	var fields domain.GenreFields
	if err := decodeJSONBody(w, r, &fields); err != nil {
		if errors.Is(err, errEmptyBody) {
			s.respondEmptyInput(w, "genre")
			return
		}
		s.respondDecodeError(w, err)
		return
	}

	assigned := fields.Assigned()
	if len(assigned) == 0 {
		s.respondEmptyInput(w, "genre")
		return
	}
	if err := validateAssignments(assigned); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	id, err := s.repo.Genres.Create(r.Context(), fields)
	if err != nil {
		s.respondRepoError(w, r, "genre", "", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/genres/%d", id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "genre", raw, err)
		return
	}

	genre, err := s.repo.Genres.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, r, "genre", raw, err)
		return
	}
	s.respondJSON(w, http.StatusOK, namedResponse{ID: genre.ID, Name: genre.Name})
}

func (s *Server) handleUpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "genre", raw, err)
		return
	}

	var fields domain.GenreFields
	if err := decodeJSONBody(w, r, &fields); err != nil {
		if s.rowMissing(w, r, "genre", raw, id, s.repo.Genres.Exists) {
			return
		}
		if errors.Is(err, errEmptyBody) {
			s.respondEmptyInput(w, "genre")
			return
		}
		s.respondDecodeError(w, err)
		return
	}
	if err := validateAssignments(fields.Assigned()); err != nil {
		if s.rowMissing(w, r, "genre", raw, id, s.repo.Genres.Exists) {
			return
		}
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.repo.Genres.Update(r.Context(), id, fields); err != nil {
		s.respondRepoError(w, r, "genre", raw, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "genre", raw, err)
		return
	}

	if err := s.repo.Genres.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, r, "genre", raw, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
