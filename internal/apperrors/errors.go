package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the application error type carried from services up to the
// HTTP layer. HTTPCode decides the response status; Err keeps the wrapped
// cause for logging and is never serialized.
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Err      error     `json:"-"`
	HTTPCode int       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// WithError returns a copy carrying the underlying cause, so that the
// predefined errors below stay immutable.
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}
	return json.Marshal(&alias{Code: e.Code, Message: e.Message})
}

// Is reports whether err matches target, following wrapped causes.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a convenience wrapper over errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors. HTTP codes mirror the public API contract: duplicate
// category names and emails answer 400, duplicate product slugs answer 409.
var (
	// Auth
	ErrInvalidCredentials  = New(CodeInvalidCredentials, "Invalid credentials", http.StatusBadRequest)
	ErrEmailTaken          = New(CodeEmailTaken, "Email already used", http.StatusBadRequest)
	ErrUnauthorized        = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrMissingRefreshToken = New(CodeUnauthorized, "No refresh token", http.StatusUnauthorized)
	ErrMissingLogoutToken  = New(CodeBadRequest, "No refresh token provided", http.StatusBadRequest)
	ErrInvalidRefreshToken = New(CodeInvalidToken, "Invalid refresh token", http.StatusForbidden)

	// Categories
	ErrCategoryNotFound  = New(CodeNotFound, "Category not found", http.StatusNotFound)
	ErrCategoryNameTaken = New(CodeCategoryNameTaken, "Category name must be unique", http.StatusBadRequest)
	ErrCategoryInUse     = New(CodeCategoryInUse, "Cannot delete category with linked products", http.StatusBadRequest)

	// Products
	ErrProductNotFound  = New(CodeNotFound, "Product not found", http.StatusNotFound)
	ErrDuplicateSlug    = New(CodeDuplicateSlug, "Product with this title already exists", http.StatusConflict)
	ErrEmptySearchQuery = New(CodeBadRequest, "Search query is required", http.StatusBadRequest)
)

// BadRequestError builds a request-specific 400.
func BadRequestError(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// InternalError wraps an unexpected failure into a generic 500. The cause is
// kept for logging and never reaches the client.
func InternalError(err error) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Message:  "Internal server error",
		Err:      err,
		HTTPCode: http.StatusInternalServerError,
	}
}
