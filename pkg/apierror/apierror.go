package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an APIError with the failure class the error classifier matches on.
type Kind int

const (
	KindUnexpected Kind = iota
	KindApplication
	KindValidation
	KindDuplicateKey
	KindCast
	KindInvalidToken
	KindExpiredToken
	KindUploadTooLarge
	KindUploadRejected
	KindNotFound
	KindForbidden
	KindUnauthenticated
)

var kindNames = map[Kind]string{
	KindUnexpected:      "UNEXPECTED",
	KindApplication:     "APPLICATION",
	KindValidation:      "VALIDATION",
	KindDuplicateKey:    "DUPLICATE_KEY",
	KindCast:            "CAST",
	KindInvalidToken:    "INVALID_TOKEN",
	KindExpiredToken:    "EXPIRED_TOKEN",
	KindUploadTooLarge:  "UPLOAD_TOO_LARGE",
	KindUploadRejected:  "UPLOAD_REJECTED",
	KindNotFound:        "NOT_FOUND",
	KindForbidden:       "FORBIDDEN",
	KindUnauthenticated: "UNAUTHENTICATED",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

type APIError struct {
	Kind       Kind
	Message    string
	Field      string
	Limit      int64
	HTTPStatus int
	Err        error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds an explicit application error; its status and message reach the client unchanged when the status is below 500.
func New(status int, message string) *APIError {
	return &APIError{Kind: KindApplication, Message: message, HTTPStatus: status}
}

func BadRequest(message string) *APIError {
	return New(http.StatusBadRequest, message)
}

func NotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

func Forbidden(message string) *APIError {
	return &APIError{Kind: KindForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

func Unauthenticated(message string) *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: message, HTTPStatus: http.StatusUnauthorized}
}

func Validation(field string, message string) *APIError {
	return &APIError{Kind: KindValidation, Field: field, Message: message, HTTPStatus: http.StatusBadRequest}
}

func Duplicate(field string, err error) *APIError {
	return &APIError{Kind: KindDuplicateKey, Field: field, Message: "duplicate " + field, HTTPStatus: http.StatusBadRequest, Err: err}
}

func Cast(err error) *APIError {
	return &APIError{Kind: KindCast, Message: "invalid id or data format", HTTPStatus: http.StatusBadRequest, Err: err}
}

func InvalidToken(err error) *APIError {
	return &APIError{Kind: KindInvalidToken, Message: "invalid token", HTTPStatus: http.StatusUnauthorized, Err: err}
}

func ExpiredToken(err error) *APIError {
	return &APIError{Kind: KindExpiredToken, Message: "token expired", HTTPStatus: http.StatusUnauthorized, Err: err}
}

func UploadTooLarge(limit int64) *APIError {
	return &APIError{Kind: KindUploadTooLarge, Message: "upload exceeds size limit", Limit: limit, HTTPStatus: http.StatusBadRequest}
}

func UploadRejected(message string) *APIError {
	return &APIError{Kind: KindUploadRejected, Message: message, HTTPStatus: http.StatusBadRequest}
}

func Unexpected(message string, err error) *APIError {
	return &APIError{Kind: KindUnexpected, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// Is reports whether err carries an APIError of the given kind.
func Is(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
