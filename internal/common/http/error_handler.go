package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
)

// StatusForCategory is the single place where domain error categories
// become HTTP status codes.
func StatusForCategory(category commonerrors.ErrorCategory) int {
	switch category {
	case commonerrors.CategoryValidation:
		return http.StatusBadRequest
	case commonerrors.CategoryNotFound:
		return http.StatusNotFound
	case commonerrors.CategoryConflict:
		return http.StatusConflict
	case commonerrors.CategoryUnauthorized:
		return http.StatusUnauthorized
	case commonerrors.CategoryExternal:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Code(), "internal server error", nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, domainErr commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = domainErr.TraceID()
	}

	status := StatusForCategory(domainErr.Category())

	logFields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", domainErr.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	var details map[string]any
	if d := domainErr.Details(); len(d) > 0 {
		details = make(map[string]any, len(d))
		for k, v := range d {
			details[k] = v
		}
	}

	WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), details, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
