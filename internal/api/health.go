// Copyright (c) 2026 Pagebound. All rights reserved.

// Package api composes the HTTP server and its operational endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/pagebound/bookclub/internal/platform/respond"
)

// HealthDependencies carries the probe functions the readiness endpoint
// exercises. A nil function skips that dependency.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers builds the /health and /ready handler funcs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness answers GET /health. It only proves the process is serving.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

type dependencyCheck struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness answers GET /ready. Any failing dependency degrades the
// response to 503 so load balancers stop routing traffic here.
func (handler *healthHandler) readiness(writer http.ResponseWriter, _ *http.Request) {
	probes := []struct {
		name string
		ping func() error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	checks := make([]dependencyCheck, 0, len(probes))
	ready := true

	for _, probe := range probes {
		if probe.ping == nil {
			continue
		}

		check := dependencyCheck{Name: probe.name, IsOK: true}
		if err := probe.ping(); err != nil {
			check.IsOK = false
			check.Error = err.Error()
			ready = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", probe.name),
				slog.Any("error", err),
			)
		}
		checks = append(checks, check)
	}

	status, httpStatus := "ready", http.StatusOK
	if !ready {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		"status": status,
		"checks": checks,
	}})
}
