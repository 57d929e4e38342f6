// Package host provides the host bounded context: a host's homestays,
// offline bookings and the review of bookings made for them.
package host

import (
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/host/handler"
	"tourism_portal_backend/internal/host/service"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(st *store.Store, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(st.Homestays, st.Bookings, eventBus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "host"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Gated("/host", domain.RoleHost))
}

var _ apphttp.Module = (*Module)(nil)
