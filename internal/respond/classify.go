package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"catalog-api/internal/validate"
	"catalog-api/pkg/apierror"
)

const (
	MsgGeneric        = "Something went wrong. Please try again later."
	MsgDuplicateEmail = "An account with this email already exists."
	MsgCast           = "Invalid ID or data format."
	MsgInvalidToken   = "Invalid or missing token. Please sign in again."
	MsgExpiredToken   = "Your session has expired. Please sign in again."
	MsgUnexpectedFile = "Unexpected file field. Please check your request."
)

// Postgres SQLSTATE codes the classifier understands.
const (
	pgUniqueViolation      = "23505"
	pgNotNullViolation     = "23502"
	pgCheckViolation       = "23514"
	pgInvalidTextRepresent = "22P02"
	pgForeignKeyViolation  = "23503"
)

type Classification struct {
	Status  int
	Message string
	Class   string
}

var duplicateKeyPattern = regexp.MustCompile(`Key \(([^)]+)\)=`)

// Classify maps an arbitrary error to a status and client-safe message. The first matching rule wins.
func Classify(err error) Classification {
	apiErr, isAPI := apierror.As(err)

	var pgErr *pgconn.PgError
	isPG := errors.As(err, &pgErr)

	if isAPI && apiErr.HTTPStatus < http.StatusInternalServerError {
		switch apiErr.Kind {
		case apierror.KindApplication, apierror.KindNotFound, apierror.KindForbidden, apierror.KindUnauthenticated:
			return Classification{Status: apiErr.HTTPStatus, Message: apiErr.Message, Class: apiErr.Kind.String()}
		}
	}

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return Classification{Status: http.StatusBadRequest, Message: validate.Message(verrs), Class: "validation"}
	case isAPI && apiErr.Kind == apierror.KindValidation:
		return Classification{Status: http.StatusBadRequest, Message: apiErr.Message, Class: "validation"}
	case isPG && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation):
		return Classification{Status: http.StatusBadRequest, Message: pgValidationMessage(pgErr), Class: "validation"}
	}

	if isAPI && apiErr.Kind == apierror.KindDuplicateKey {
		return duplicate(apiErr.Field)
	}
	if isPG && pgErr.Code == pgUniqueViolation {
		return duplicate(duplicateField(pgErr))
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case isAPI && apiErr.Kind == apierror.KindCast,
		isPG && (pgErr.Code == pgInvalidTextRepresent || pgErr.Code == pgForeignKeyViolation),
		errors.As(err, &typeErr):
		return Classification{Status: http.StatusBadRequest, Message: MsgCast, Class: "cast"}
	}

	if (isAPI && apiErr.Kind == apierror.KindInvalidToken) ||
		errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) {
		return Classification{Status: http.StatusUnauthorized, Message: MsgInvalidToken, Class: "invalid_token"}
	}

	if (isAPI && apiErr.Kind == apierror.KindExpiredToken) || errors.Is(err, jwt.ErrTokenExpired) {
		return Classification{Status: http.StatusUnauthorized, Message: MsgExpiredToken, Class: "expired_token"}
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case isAPI && apiErr.Kind == apierror.KindUploadTooLarge:
		return tooLarge(apiErr.Limit)
	case errors.As(err, &maxBytesErr):
		return tooLarge(maxBytesErr.Limit)
	}

	if isAPI && apiErr.Kind == apierror.KindUploadRejected {
		msg := MsgUnexpectedFile
		if strings.Contains(apiErr.Message, "Invalid file type") {
			msg = apiErr.Message
		}
		return Classification{Status: http.StatusBadRequest, Message: msg, Class: "upload"}
	}

	return Classification{Status: http.StatusInternalServerError, Message: MsgGeneric, Class: "unexpected"}
}

func duplicate(field string) Classification {
	field = strings.TrimSpace(field)
	msg := fmt.Sprintf("This %s is already in use. Please choose another.", field)
	switch field {
	case "email":
		msg = MsgDuplicateEmail
	case "":
		msg = "This value is already in use. Please choose another."
	}
	return Classification{Status: http.StatusBadRequest, Message: msg, Class: "duplicate"}
}

// duplicateField reads the column list from the error detail, falling back to the constraint name.
func duplicateField(pgErr *pgconn.PgError) string {
	if m := duplicateKeyPattern.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}

	name := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	return name
}

func pgValidationMessage(pgErr *pgconn.PgError) string {
	if pgErr.Code == pgNotNullViolation && pgErr.ColumnName != "" {
		return fmt.Sprintf("%s is required", pgErr.ColumnName)
	}
	if pgErr.ConstraintName != "" {
		return fmt.Sprintf("Invalid value (%s)", pgErr.ConstraintName)
	}
	return "Invalid input data"
}

func tooLarge(limit int64) Classification {
	mb := limit / (1024 * 1024)
	if mb < 1 {
		mb = 1
	}
	return Classification{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("File size too large. Maximum size is %dMB.", mb),
		Class:   "upload",
	}
}
