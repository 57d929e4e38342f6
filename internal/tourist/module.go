// Package tourist provides the tourist bounded context: online bookings
// and a tourist's booking history.
package tourist

import (
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/internal/tourist/handler"
	"tourism_portal_backend/internal/tourist/service"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(st *store.Store, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(st.Users, st.Homestays, st.Bookings, eventBus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "tourist"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Gated("/tourist", domain.RoleTourist))
}

var _ apphttp.Module = (*Module)(nil)
