// Package request holds the small parsing helpers shared by the HTTP handlers.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// UUIDParam returns the named chi URL parameter if it is a valid UUID
func UUIDParam(r *http.Request, key string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// DecodeJSON decodes a single JSON object from the request body into v
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

// Pagination reads page and per_page, defaulting to the first page of 20
func Pagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
