package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/logger"
)

// Pinger checks storage reachability. pgxpool.Pool.Ping and sql.DB.PingContext both fit.
type Pinger func(ctx context.Context) error

func HealthHandler(log *logger.Logger, ping Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"error":  err.Error(),
					"action": "health_check",
				}).Warn("storage ping failed")
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}

		log.Debugf("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
