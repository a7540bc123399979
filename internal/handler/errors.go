package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

// ErrorDetail is the machine-readable code and human-readable message of a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeError renders an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// notFound renders a 404 for a missing resource.
// The caller supplies the message (e.g. "record not found") because the
// handler is the layer that knows what was being looked up.
func notFound(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusNotFound, "not_found", message)
}

// badRequest renders a 422 for input rejected before reaching the service
// layer (e.g. a malformed body or query parameter).
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusUnprocessableEntity, "validation_error", message)
}

// decodeFailed renders the response for a body that could not be decoded.
func decodeFailed(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	badRequest(w, r, "invalid request body: "+err.Error())
}

// serviceError maps a service error onto an HTTP response. Sentinel errors
// from the domain package become client errors; anything else is logged and
// reported as a 500 without leaking details.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, r, notFoundMsg)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrEmptyInput):
		writeError(w, r, http.StatusUnprocessableEntity, "empty_input", domain.ErrEmptyInput.Error())
	case errors.Is(err, domain.ErrTemplateFetch):
		s.logger.ErrorContext(r.Context(), "template unavailable", "error", err)
		writeError(w, r, http.StatusBadGateway, "template_unavailable", "spreadsheet template could not be loaded")
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.RecordService.Create: validation error: user is required" → "user is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "service.") {
		if _, rest, ok := strings.Cut(msg, ": "); ok {
			msg = rest
		}
	}
	return strings.Replace(msg, domain.ErrValidation.Error()+": ", "", 1)
}
