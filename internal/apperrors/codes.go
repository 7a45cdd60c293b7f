package apperrors

// ErrorCode identifies an error class in API responses.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"

	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeDuplicateSlug      ErrorCode = "DUPLICATE_SLUG"
	CodeCategoryNameTaken  ErrorCode = "CATEGORY_NAME_TAKEN"
	CodeCategoryInUse      ErrorCode = "CATEGORY_IN_USE"
)
