// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/httpkit"
	"tourism_portal_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for the health check (Mongo ping).
	Health HealthChecker
	// Tokens resolves bearer tokens into principals for AuthRequired.
	Tokens httpkit.PrincipalResolver
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
