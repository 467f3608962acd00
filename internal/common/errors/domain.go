package commonerrors

var (
	ErrInvalidArgument = NewDomainError(
		"INVALID_ARGUMENT",
		CategoryValidation,
		"invalid argument",
	)

	ErrNotFound = NewDomainError(
		"NOT_FOUND",
		CategoryNotFound,
		"entity not found",
	)

	ErrAlreadyExists = NewDomainError(
		"ALREADY_EXISTS",
		CategoryConflict,
		"entity already exists",
	)

	ErrAuthenticationFailed = NewDomainError(
		"AUTHENTICATION_FAILED",
		CategoryUnauthorized,
		"invalid email or password",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		"token is not valid",
	)

	ErrCircuitOpen = NewDomainError(
		"CIRCUIT_OPEN",
		CategoryExternal,
		"circuit breaker is open",
	)

	ErrServiceUnavailable = NewDomainError(
		"SERVICE_UNAVAILABLE",
		CategoryExternal,
		"service temporarily unavailable",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		"internal server error",
	)

	ErrDatabaseError = NewDomainError(
		"DATABASE_ERROR",
		CategoryInternal,
		"database operation failed",
	)

	ErrInvalidPayload = NewDomainError(
		"INVALID_PAYLOAD",
		CategoryValidation,
		"invalid payload",
	)

	ErrMarshalError = NewDomainError(
		"MARSHAL_ERROR",
		CategoryInternal,
		"failed to marshal data",
	)
)

// NotFound reports a missing entity, naming which entity and which id.
func NotFound(entity, id string) DomainError {
	return ErrNotFound.
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// InvalidArgument reports a rejected input field with a human readable reason.
func InvalidArgument(field, reason string) DomainError {
	return ErrInvalidArgument.
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func AlreadyExists(entity, key string) DomainError {
	return ErrAlreadyExists.
		WithDetail("entity", entity).
		WithDetail("key", key)
}

func AuthenticationFailed() DomainError {
	return ErrAuthenticationFailed
}

func Internal(cause error) DomainError {
	return ErrInternalError.WithCause(cause)
}

// FromStorage wraps a repository failure. An open circuit maps to
// ErrServiceUnavailable, anything else to ErrDatabaseError.
func FromStorage(err error) DomainError {
	if de, ok := AsDomainError(err); ok && de.Code() == ErrCircuitOpen.Code() {
		return ErrServiceUnavailable.WithCause(err)
	}
	return ErrDatabaseError.WithCause(err)
}
