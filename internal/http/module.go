// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	// The RouterContext provides access to shared middleware.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// API is the /api route group. Routes mounted directly on it are public.
	API *gin.RouterGroup
	// AuthMiddleware rejects requests without a valid bearer token.
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimiter is the stricter rate limiter for credential routes.
	AuthRateLimiter *httpkit.AuthRateLimiter
}

// RequireRoles returns the role gate for the given roles. Use it after
// AuthMiddleware.
func (rc *RouterContext) RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return httpkit.RequireRoles(names...)
}

// Gated returns a group under /api/<prefix> where every route requires a
// valid token and one of roles.
func (rc *RouterContext) Gated(prefix string, roles ...domain.Role) *gin.RouterGroup {
	return rc.API.Group(prefix, rc.AuthMiddleware, rc.RequireRoles(roles...))
}
