package rest

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogger tags each request with a unique ID and times it through a
// request-specific field logger.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			reqUUID, err := uuid.NewV4()
			if err != nil {
				logger.WithError(err).Error("can't generate a request UUID")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			var requestLogger = logger.WithFields(logrus.Fields{
				"reqid":     reqUUID.String(),
				"remote-ip": request.RemoteAddr,
			})

			var start = time.Now()
			next.ServeHTTP(w, request)

			requestLogger.Debugf("%s %s handled in %v", request.Method, request.URL.Path, time.Since(start))
		})
	}
}
