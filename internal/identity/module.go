// Package identity provides the identity bounded context module: account
// signup and login, the administrator's two-step login and the caller's
// own profile.
package identity

import (
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/identity/handler"
	"tourism_portal_backend/internal/identity/service"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(users store.Users, hasher service.Hasher, tokens service.TokenIssuer, admin config.AdminConfig, challenges service.ChallengeStore, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(users, hasher, tokens, admin, challenges, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "identity"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	auth := ctx.API.Group("/auth")
	m.handler.RegisterPublicRoutes(auth)

	admin := auth.Group("/admin")
	if ctx.AuthRateLimiter != nil {
		admin.Use(ctx.AuthRateLimiter.RateLimit())
	}
	m.handler.RegisterAdminRoutes(admin)

	me := auth.Group("/me", ctx.AuthMiddleware, ctx.RequireRoles(domain.RoleTourist, domain.RoleHost, domain.RoleLocalGuide))
	m.handler.RegisterSelfRoutes(me)
}

var _ apphttp.Module = (*Module)(nil)
