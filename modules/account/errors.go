package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/handler"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

var (
	errNotAuthorized       = handler.NewHTTPError(http.StatusUnauthorized, "unauthorized", "Not authorized")
	errUserExists          = handler.NewHTTPError(http.StatusConflict, "user_exists", "User already exists")
	errInvalidLogin        = handler.NewHTTPError(http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	errInvalidAuthCode     = handler.NewHTTPError(http.StatusUnauthorized, "invalid_code", "Invalid authentication code")
	errInvalidVerification = handler.NewHTTPError(http.StatusBadRequest, "invalid_code", "Invalid verification code")
	errNoPendingEnrollment = handler.NewHTTPError(http.StatusBadRequest, "no_pending_enrollment", "No temporary secret found")
	errUserNotFound        = handler.NewHTTPError(http.StatusNotFound, "not_found", "User not found")
	errPasswordIsIncorrect = handler.NewHTTPError(http.StatusUnauthorized, "invalid_password", "Password is incorrect")
)

// httpError maps service errors onto the API error taxonomy. Unknown
// errors become a generic 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInternal):
		return handler.ErrInternal
	case validator.IsValidationError(err):
		return err
	case errors.Is(err, auth.ErrDuplicateIdentity):
		return errUserExists
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errInvalidLogin
	case errors.Is(err, auth.ErrInvalidSecondFactor):
		return errInvalidAuthCode
	case errors.Is(err, auth.ErrNoPendingEnrollment):
		return errNoPendingEnrollment
	case errors.Is(err, auth.ErrNotFound):
		return errUserNotFound
	default:
		return handler.ErrInternal
	}
}
