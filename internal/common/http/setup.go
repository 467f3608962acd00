package http

import (
	"net/http"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	"github.com/AlibekovAA/puppies-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(traceID(recovery(maxRequestSize(collector.Wrap(handler))))))
}
