package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"catalog-api/internal/middleware"
	"catalog-api/internal/model"
	"catalog-api/internal/validate"
	"catalog-api/pkg/apierror"
)

const maxJSONBody = 1 << 20

// decodeJSON treats an empty body as an empty object so required-field validation reports it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		var (
			typeErr *json.UnmarshalTypeError
			sizeErr *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &typeErr), errors.As(err, &sizeErr):
			return err
		default:
			return apierror.BadRequest("Invalid JSON body")
		}
	}
	return nil
}

// normalizer is implemented by request bodies whose fields are trimmed before validation.
type normalizer interface {
	Normalize()
}

// bind decodes the JSON body into dst, normalizes it and validates its struct tags.
func bind(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validate.Struct(dst)
}

// pathID returns the named URL parameter, rejecting anything that is not a UUID as a cast failure.
func pathID(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apierror.Cast(err)
	}
	return id.String(), nil
}

// optionalPathID is pathID for routes mounted both nested and top-level.
func optionalPathID(r *http.Request, name string) (string, error) {
	if chi.URLParam(r, name) == "" {
		return "", nil
	}
	return pathID(r, name)
}

// currentUser is only called behind RequireAuth.
func currentUser(r *http.Request) model.User {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}
