package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIdKey string

const RequestIdKey requestIdKey = "requestId"

const requestIdHeader = "X-Request-ID"

// WithRequestId tags every request with an id, keeping one assigned by
// an upstream proxy when present, and echoes it on the response so
// clients can quote it when reporting failures.
func WithRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := r.Header.Get(requestIdHeader)
		if reqId == "" {
			reqId = uuid.New().String()
			r.Header.Set(requestIdHeader, reqId)
		}
		w.Header().Set(requestIdHeader, reqId)

		ctx := context.WithValue(r.Context(), RequestIdKey, reqId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
