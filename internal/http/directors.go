package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Clark-Hu/filmdb/internal/domain"
)

// namedResponse renders directors and genres.
type namedResponse struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

func (s *Server) handleListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := s.repo.Directors.List(r.Context())
	if err != nil {
		s.respondRepoError(w, r, "director", "", err)
		return
	}
	if len(directors) == 0 {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No directors found")
		return
	}

	items := make([]namedResponse, 0, len(directors))
	for _, d := range directors {
		items = append(items, namedResponse{ID: d.ID, Name: d.Name})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateDirector(w http.ResponseWriter, r *http.Request) {
	var fields domain.DirectorFields
	if err := decodeJSONBody(w, r, &fields); err != nil {
		if errors.Is(err, errEmptyBody) {
			s.respondEmptyInput(w, "director")
			return
		}
		s.respondDecodeError(w, err)
		return
	}

	assigned := fields.Assigned()
	if len(assigned) == 0 {
		s.respondEmptyInput(w, "director")
		return
	}
	if err := validateAssignments(assigned); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	id, err := s.repo.Directors.Create(r.Context(), fields)
	if err != nil {
		s.respondRepoError(w, r, "director", "", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/directors/%d", id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetDirector(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "director", raw, err)
		return
	}

	director, err := s.repo.Directors.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, r, "director", raw, err)
		return
	}
	s.respondJSON(w, http.StatusOK, namedResponse{ID: director.ID, Name: director.Name})
}

func (s *Server) handleUpdateDirector(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "director", raw, err)
		return
	}

	var fields domain.DirectorFields
	if err := decodeJSONBody(w, r, &fields); err != nil {
		if s.rowMissing(w, r, "director", raw, id, s.repo.Directors.Exists) {
			return
		}
		if errors.Is(err, errEmptyBody) {
			s.respondEmptyInput(w, "director")
			return
		}
		s.respondDecodeError(w, err)
		return
	}
	if err := validateAssignments(fields.Assigned()); err != nil {
		if s.rowMissing(w, r, "director", raw, id, s.repo.Directors.Exists) {
			return
		}
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.repo.Directors.Update(r.Context(), id, fields); err != nil {
		s.respondRepoError(w, r, "director", raw, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, raw, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w, "director", raw, err)
		return
	}

	if err := s.repo.Directors.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, r, "director", raw, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
