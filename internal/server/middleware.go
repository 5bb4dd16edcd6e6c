package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/fluxvision/internal/api"
	"github.com/muurk/fluxvision/internal/logging"
)

type ctxKey int

const requestIDKey ctxKey = iota

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestLogger assigns every request an id, echoes it in the X-Request-ID
// response header and logs the request and its outcome. A well-formed id
// sent by the client is reused.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(api.RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		w.Header().Set(api.RequestIDHeader, requestID)

		logging.LogHTTPRequest(requestID, r.Method, r.URL.Path, r.RemoteAddr)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))

		logging.LogHTTPResponse(requestID, r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds())
	})
}

// RequestID returns the id RequestLogger assigned to the request in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
