package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "insightseo/pkg/errors"
)

// HealthResponse is the body of the health and readiness endpoints
type HealthResponse struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment,omitempty"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// RespondJSON sends data as the JSON response body
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ParseJSONBody decodes a single JSON object into v. Unknown fields, trailing
// data and bodies over maxBytes are rejected.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return decodeError(err, maxBytes)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return pkgerrors.NewValidationError("request body must contain a single JSON object")
	}

	return nil
}

func decodeError(err error, maxBytes int64) error {
	var maxBytesErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &maxBytesErr):
		appErr := pkgerrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxBytes))
		appErr.Code = pkgerrors.CodeTextTooLong
		appErr.HTTPStatus = http.StatusRequestEntityTooLarge
		return appErr
	case errors.Is(err, io.EOF):
		return pkgerrors.NewValidationError("request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return pkgerrors.NewValidationError("request body is not valid JSON")
	case errors.As(err, &typeErr):
		return pkgerrors.NewValidationError(fmt.Sprintf("field %s must be a %s", typeErr.Field, typeErr.Type))
	default:
		// DisallowUnknownFields reports `json: unknown field "x"`
		return pkgerrors.NewValidationError("invalid request body: " + err.Error())
	}
}
