package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/diewo77/sms-api/httpx"
	"github.com/diewo77/sms-api/internal/logging"
	"github.com/diewo77/sms-api/internal/policy"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-Id"

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	app.handler = withLogging(withRecover(app.mux))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	hh := a.routerCfg.HealthHandler
	a.mux.HandleFunc("GET /health", hh.Live)
	a.mux.HandleFunc("GET /healthz", hh.Ready)

	qh := a.routerCfg.QueryHandler
	eh := a.routerCfg.EmailHandler
	a.mux.Handle("POST /api/query", a.requireKey(qh.Run))
	a.mux.Handle("GET /meeting/report_data", a.requireKey(qh.MeetingReport))
	a.mux.Handle("GET /email/recent", a.requireKey(eh.Recent))
	a.mux.Handle("GET /email/was_processed", a.requireKey(eh.WasProcessed))
	a.mux.Handle("POST /email/track", a.requireKey(eh.Track))
}

// requireKey wraps a handler to require the shared API key.
func (a *App) requireKey(h http.HandlerFunc) http.Handler {
	return a.routerCfg.KeyChecker.RequireKey(h)
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging tags each request with an id and logs its outcome. The API
// key header is never logged.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

// withRecover turns a handler panic into a 500 response.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				httpx.WriteError(w, r, errors.Errorf("panic: %v", v))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
