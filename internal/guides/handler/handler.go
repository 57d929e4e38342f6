package handler

import (
	"net/http"

	"tourism_portal_backend/internal/guides/service"
	"tourism_portal_backend/internal/guides/transport"
	"tourism_portal_backend/platform/httpkit"
	"tourism_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes mounts the unauthenticated approval probe.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/approval-status", h.ApprovalStatus)
}

// RegisterGuideRoutes mounts the routes a Local Guide uses on their own data.
func (h *Handler) RegisterGuideRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.PATCH("/profile", h.UpdateProfile)
	rg.PATCH("/profile/update", h.UpdateProfile)
	rg.POST("/availability/add", h.AddAvailability)
	rg.GET("/hire-requests", h.ListHireRequests)
	rg.PATCH("/hire-requests/:id/status", h.UpdateHireStatus)
	rg.GET("/portfolio", h.GetPortfolio)
	rg.POST("/portfolio", h.AddPortfolioItem)
	rg.POST("/portfolio/add", h.AddPortfolioItem)
}

// RegisterTouristRoutes mounts the hire request a tourist sends.
func (h *Handler) RegisterTouristRoutes(rg *gin.RouterGroup) {
	rg.POST("/hire-guide", h.HireGuide)
}

func (h *Handler) ApprovalStatus(c *gin.Context) {
	resp, err := h.svc.ApprovalStatus(c.Request.Context(), c.Query("email"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetProfile(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetProfile(c.Request.Context(), principal.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.UpdateProfile(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AddAvailability(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.AddAvailabilityRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.AddAvailability(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListHireRequests(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	hires, err := h.svc.HireRequests(c.Request.Context(), principal.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, hires)
}

func (h *Handler) UpdateHireStatus(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.UpdateHireStatusRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.UpdateHireStatus(c.Request.Context(), principal.Email, c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	items, err := h.svc.Portfolio(c.Request.Context(), principal.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) AddPortfolioItem(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.AddPortfolioRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.AddPortfolioItem(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) HireGuide(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.HireGuideRequest
	if !h.bind(c, &req) {
		return
	}

	hire, err := h.svc.HireGuide(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, hire)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if !httpkit.BindJSON(c, req) {
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, validator.Message(err))
		return false
	}
	return true
}
