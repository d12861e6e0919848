package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/phrazzld/numina/internal/api/shared"
	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/service/auth"
	"github.com/phrazzld/numina/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrOutOfOrder):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFocus),
		errors.Is(err, domain.ErrInvalidRealm),
		errors.Is(err, domain.ErrInvalidLocation),
		errors.Is(err, domain.ErrInvalidActivity),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, accuracy.ErrInvalidReference),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrInvalidFocus):
		return "Focus number must be between 1 and 9"
	case errors.Is(err, domain.ErrInvalidRealm):
		return "Invalid realm number"
	case errors.Is(err, domain.ErrInvalidLocation):
		return "Invalid location"
	case errors.Is(err, domain.ErrInvalidActivity):
		return "Invalid activity reading"
	case errors.Is(err, accuracy.ErrInvalidReference):
		return "Invalid reference table"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"
	case errors.Is(err, store.ErrOutOfOrder):
		return "Record is older than the latest entry"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming only
// the first failing field and rule.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required", "required_without":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status and safe message and writes the
// response, logging the redacted error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
