package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/shared"
)

const maxBodySize = 1 << 20

var errMalformedBody = errors.New("malformed request body")

// bind decodes a JSON or URL-encoded body into req and validates it.
//
// A body that cannot be decoded wraps errMalformedBody; missing fields wrap [shared.ErrMissingArgument].
// An empty body is not malformed, it just leaves every field missing.
func bind(r *http.Request, req models.Request) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		req.Bind(r.PostForm)
	default:
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w", errMalformedBody, err)
		}
	}

	return req.Validate()
}

// statusFor maps a bind error to a response status. Missing fields answer 402, which existing clients rely on.
func statusFor(err error) int {
	if errors.Is(err, shared.ErrMissingArgument) {
		return http.StatusPaymentRequired
	}
	return http.StatusBadRequest
}

// writeJSON writes v as a JSON response body with status.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeStatus writes the standard status text as a plain body.
func writeStatus(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}
