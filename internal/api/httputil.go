package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/store"
	"github.com/abhisek/syllabus/internal/transition"
)

// Error codes returned in the "error" field of error responses.
const (
	CodeBadRequest          = "bad_request"
	CodeNotFound            = "not_found"
	CodeIllegalTransition   = "illegal_transition"
	CodeConflict            = "conflict"
	CodeAlreadyExists       = "already_exists"
	CodePrerequisitesNotMet = "prerequisites_not_met"
	CodeExamPrereqsNotMet   = "exam_prerequisites_not_met"
	CodeInvalidCurriculum   = "invalid_curriculum"
	CodeInternal            = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error       string                   `json:"error"`
	Description string                   `json:"error_description,omitempty"`
	Unmet       []curriculum.Requirement `json:"unmet,omitempty"`
}

// badRequest marks client input errors.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates domain errors to HTTP responses. Internal errors
// never carry a description.
func WriteError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	WriteJSON(w, status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		br   badRequest
		terr *transition.Error
		gerr *curriculum.GraphError
	)
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, ErrorResponse{Error: CodeBadRequest, Description: br.msg}
	case errors.As(err, &gerr):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: CodeInvalidCurriculum, Description: err.Error()}
	case errors.Is(err, store.ErrNotFound), errors.Is(err, curriculum.ErrUnknownSubject):
		return http.StatusNotFound, ErrorResponse{Error: CodeNotFound, Description: err.Error()}
	case errors.Is(err, store.ErrAlreadyExists):
		return http.StatusConflict, ErrorResponse{Error: CodeAlreadyExists, Description: err.Error()}
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: CodeConflict, Description: err.Error()}
	case errors.As(err, &terr):
		resp := ErrorResponse{Description: err.Error(), Unmet: terr.Unmet}
		switch {
		case errors.Is(err, transition.ErrPrerequisitesNotMet):
			resp.Error = CodePrerequisitesNotMet
			return http.StatusUnprocessableEntity, resp
		case errors.Is(err, transition.ErrExamPrerequisitesNotMet):
			resp.Error = CodeExamPrereqsNotMet
			return http.StatusUnprocessableEntity, resp
		default:
			resp.Error = CodeIllegalTransition
			return http.StatusConflict, resp
		}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: CodeInternal}
}
