package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds the component checks of one health request.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Patch("/", s.handlePatchSettings)
			r.Get("/mappings", s.handleGetMappings)
			r.Put("/mappings", s.handlePutMappings)
			r.Delete("/{group}", s.handleClearSettings)
		})

		r.Get("/global", s.handleGetGlobal)
		r.Patch("/global", s.handlePatchGlobal)

		r.Post("/plugin", s.handleSendToPlugin)

		r.Route("/windows", func(r chi.Router) {
			r.Delete("/", s.handleCloseWindows)

			r.Route("/{kind}", func(r chi.Router) {
				r.Post("/", s.handleOpenWindow)
				r.Get("/", s.handleGetWindow)
				r.Post("/actions", s.handleWindowAction)
			})
		})

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth reports the host connection state and each telemetry sink.
// A failing sink marks the inspector degraded, not down: it keeps serving
// without telemetry.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	components := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check.HealthCheck(ctx); err != nil {
			components[name] = err.Error()
			status = "degraded"
			continue
		}
		components[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"version":    s.version,
		"host":       s.inspector.Snapshot().State,
		"components": components,
	})
}
