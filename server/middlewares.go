package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/medilink/medilink/colors"
)

type ResponseWriterWithStatus struct {
	http.ResponseWriter
	Status int
}

func (r *ResponseWriterWithStatus) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		responseWriter := &ResponseWriterWithStatus{
			ResponseWriter: w,
			Status:         http.StatusOK,
		}

		defer func() {
			logg.Infow(
				r.Method+" "+r.RequestURI+" "+colors.Status(responseWriter.Status)+" "+colors.Latency(time.Since(start)),
				"requestId", requestID,
			)
		}()

		next.ServeHTTP(responseWriter, r)
	})
}

func initialContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx := context.WithValue(r.Context(), RequestContextKey("session"), decodeAndVerifySession(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func protectedRouteMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := r.Context().Value(RequestContextKey("session")).(DecodedSession)
		if session.Caller == nil {
			writeResponse(w, ErrorPayload{Error: session.ErrorMsg}, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func adminRouteMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller := callerFrom(r); caller == nil || !caller.IsAdmin {
			writeResponse(w, ErrorPayload{Error: "action is forbidden"}, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
