package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxLoggedBodyBytes = 512

func NewRouter(api *API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", api.HandleHealth)
	mux.HandleFunc("/stats", api.HandleStats)
	mux.HandleFunc("/history", api.HandleHistory)
	mux.HandleFunc("/categories", api.HandleCategories)

	return withRequestLogging(api.log, mux)
}

func withRequestLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedBodyBytes,
		}

		next.ServeHTTP(recorder, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.statusCode),
			zap.Int("bytes", recorder.bytesWritten),
			zap.Duration("duration", time.Since(started)),
		}
		if recorder.statusCode >= http.StatusInternalServerError {
			fields = append(fields,
				zap.String("body", recorder.logBody.String()),
				zap.Bool("body_truncated", recorder.truncated),
			)
			log.Warn("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	})
}

// statusRecorder captures the status code and the first maxLogBytes of the
// body for the request log.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	logBody      bytes.Buffer
	maxLogBytes  int
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if room := r.maxLogBytes - r.logBody.Len(); room > 0 {
		if len(p) > room {
			r.logBody.Write(p[:room])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}

	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n
	return n, err
}
