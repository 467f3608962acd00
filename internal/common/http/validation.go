package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest runs struct tag validation on a decoded request body and
// reports the first failing field as an invalid argument.
func ValidateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return commonerrors.InvalidArgument(strings.ToLower(fe.Field()), describeTag(fe))
	}
	return commonerrors.ErrInvalidPayload.WithCause(err)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid url"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// PathID reads a non-empty path wildcard registered on the mux pattern.
func PathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(r.PathValue(name))
	if id == "" {
		return "", commonerrors.InvalidArgument(name, "is required")
	}
	return id, nil
}
