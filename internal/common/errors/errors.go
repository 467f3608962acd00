package commonerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

// DomainError is the structured failure returned by services. It never
// carries transport details; the boundary maps Category to a status.
type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	Message() string
	Details() map[string]string
	TraceID() string
	Unwrap() error
	Is(target error) bool
	WithCause(cause error) DomainError
	WithDetail(key, value string) DomainError
	WithTraceID(traceID string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	message  string
	details  map[string]string
	traceID  string
	cause    error
}

func (e *domainError) Error() string {
	msg := e.message
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.details[k]))
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, " "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Details() map[string]string {
	if len(e.details) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

func (e *domainError) TraceID() string {
	return e.traceID
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError with the same code, so derived errors built
// with WithCause or WithDetail still satisfy errors.Is against the sentinel.
func (e *domainError) Is(target error) bool {
	var other DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code() == e.code
}

func (e *domainError) clone() *domainError {
	c := *e
	if e.details != nil {
		c.details = make(map[string]string, len(e.details))
		for k, v := range e.details {
			c.details[k] = v
		}
	}
	return &c
}

func (e *domainError) WithCause(cause error) DomainError {
	c := e.clone()
	c.cause = cause
	return c
}

func (e *domainError) WithDetail(key, value string) DomainError {
	c := e.clone()
	if c.details == nil {
		c.details = make(map[string]string, 1)
	}
	c.details[key] = value
	return c
}

func (e *domainError) WithTraceID(traceID string) DomainError {
	c := e.clone()
	c.traceID = traceID
	return c
}

func NewDomainError(code string, category ErrorCategory, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		message:  message,
	}
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func IsCategory(err error, category ErrorCategory) bool {
	de, ok := AsDomainError(err)
	return ok && de.Category() == category
}
