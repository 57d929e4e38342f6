// Package catalog provides the public catalog bounded context module:
// visible homestays, attractions and approved local guides.
package catalog

import (
	"tourism_portal_backend/internal/catalog/handler"
	"tourism_portal_backend/internal/catalog/service"
	apphttp "tourism_portal_backend/internal/http"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/logger"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module.
func NewModule(st *store.Store, log *logger.Logger) *Module {
	svc := service.New(st.Users, st.Homestays, st.Attractions, st.GuideProfiles, log)
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public catalog under /api/public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/public"))
}

var _ apphttp.Module = (*Module)(nil)
