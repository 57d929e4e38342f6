// Package moderation provides the administrator's bounded context: account
// and guide approval, homestay and attraction curation, and booking review.
package moderation

import (
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/moderation/handler"
	"tourism_portal_backend/internal/moderation/service"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(st *store.Store, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(st, eventBus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "moderation"
}

// RegisterRoutes mounts everything under /api/admin behind the Admin gate.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Gated("/admin", domain.RoleAdmin))
}

var _ apphttp.Module = (*Module)(nil)
