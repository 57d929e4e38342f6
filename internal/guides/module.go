// Package guides provides the local guide bounded context: guide profiles,
// availability, portfolios and hire requests.
package guides

import (
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/guides/handler"
	"tourism_portal_backend/internal/guides/service"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(st *store.Store, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(st.Users, st.GuideProfiles, st.GuideHires, eventBus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "guides"
}

// RegisterRoutes mounts /api/guides. The approval probe is public; the rest
// is gated per audience on the same prefix.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/guides")
	m.handler.RegisterPublicRoutes(group)
	m.handler.RegisterGuideRoutes(group.Group("", ctx.AuthMiddleware, ctx.RequireRoles(domain.RoleLocalGuide)))
	m.handler.RegisterTouristRoutes(group.Group("", ctx.AuthMiddleware, ctx.RequireRoles(domain.RoleTourist)))
}

var _ apphttp.Module = (*Module)(nil)
