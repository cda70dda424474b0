// Package service provides business logic for the application.
package service

import "errors"

// Domain errors. Handlers translate these to HTTP status codes at the
// resource-operation boundary; nothing below the handler writes a status.
var (
	// Validation failures (406 family). The messages are the only error
	// detail ever surfaced to clients.
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidAge          = errors.New("age must be greater than or equal to zero")
	ErrEmailRequired       = errors.New("email is required")
	ErrInvalidEmail        = errors.New("email is invalid")
	ErrPasswordTooShort    = errors.New("password should be greater than 6 characters")
	ErrPasswordForbidden   = errors.New("password should not contain the word 'password'")
	ErrDescriptionRequired = errors.New("description is required")
	ErrEmailExists         = errors.New("email already exists")
	ErrMalformedID         = errors.New("incorrect id format")

	// Profile image failures (406 family).
	ErrImageTooLarge = errors.New("image exceeds the maximum allowed size")
	ErrImageType     = errors.New("file must be of type jpg, jpeg or png")
	ErrImageDecode   = errors.New("image could not be decoded")

	// ErrInvalidCredentials is deliberately generic: it never reveals
	// whether the email was unknown or the password wrong.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// Not-found failures (404). A resource owned by someone else reports
	// the same error as one that does not exist.
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrProfilePicEmpty = errors.New("profile picture not found")
)

// validationErrors is the set mapped to 406 by the handlers.
var validationErrors = []error{
	ErrNameRequired,
	ErrInvalidAge,
	ErrEmailRequired,
	ErrInvalidEmail,
	ErrPasswordTooShort,
	ErrPasswordForbidden,
	ErrDescriptionRequired,
	ErrEmailExists,
	ErrMalformedID,
	ErrImageTooLarge,
	ErrImageType,
	ErrImageDecode,
}

// IsValidationError reports whether err belongs to the 406 family.
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
