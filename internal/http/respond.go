package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Clark-Hu/filmdb/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

// statusClientClosedRequest is the nginx convention for a client that went
// away before the response was written.
const statusClientClosedRequest = 499

var errEmptyBody = errors.New("request body is empty")

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeJSONBody decodes a single JSON object into dst. A missing body or a
// blank JSON value (null, false, 0, "", []) yields errEmptyBody.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isBlankJSON(raw) {
		return errEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// isBlankJSON reports whether raw is a scalar or array carrying no content.
// Objects are never blank here: {} is handled per operation.
func isBlankJSON(raw []byte) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	}
	return false
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("failed to encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondEmptyInput answers a create or update that carried no fields.
func (s *Server) respondEmptyInput(w http.ResponseWriter, entity string) {
	s.respondError(w, http.StatusNotFound, "EMPTY_INPUT", fmt.Sprintf("Request body with %s fields is required", entity))
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		if typeError.Field == "" {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be a JSON object")
			return
		}
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Field %s cannot be written", field))
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", fmt.Sprintf("Request body must not exceed %d bytes", maxBytesError.Limit))
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// respondRepoError maps repository failures to responses. entity and rawID
// name the addressed row for not-found messages; rawID is empty for creates.
func (s *Server) respondRepoError(w http.ResponseWriter, r *http.Request, entity, rawID string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondNotFound(w, entity, rawID, err)
	case errors.Is(err, repository.ErrInvalidReference), errors.Is(err, repository.ErrInvalidValue):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case r.Context().Err() != nil:
		s.logger.Info("request cancelled", zap.String("entity", entity), zap.Error(err))
		s.respondError(w, statusClientClosedRequest, "REQUEST_CANCELLED", "Request cancelled by client")
	default:
		s.logger.Error("storage failure",
			zap.String("entity", entity),
			zap.String("id", rawID),
			zap.String("request_id", requestID(r)),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fmt.Sprintf("Failed to process %s", entity))
	}
}

// rowMissing answers 404 and returns true when the addressed row is gone.
// Update handlers consult it before rejecting a body, so a miss takes
// precedence over payload errors.
func (s *Server) rowMissing(w http.ResponseWriter, r *http.Request, entity, rawID string, id int64, exists func(context.Context, int64) error) bool {
	err := exists(r.Context(), id)
	if err == nil {
		return false
	}
	s.respondRepoError(w, r, entity, rawID, err)
	return true
}

func (s *Server) respondNotFound(w http.ResponseWriter, entity, rawID string, err error) {
	s.respondError(w, http.StatusNotFound, "NOT_FOUND",
		fmt.Sprintf("%s with id = %s not found - %v", capitalize(entity), rawID, err))
}

// parseIDParam reads the {id} path segment. Non-numeric ids are reported
// through the same not-found path as missing rows.
func parseIDParam(r *http.Request) (int64, string, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, raw, fmt.Errorf("invalid id %q: %w", raw, repository.ErrNotFound)
	}
	return id, raw, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
