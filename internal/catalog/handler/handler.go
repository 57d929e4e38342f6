package handler

import (
	"github.com/gin-gonic/gin"

	"tourism_portal_backend/internal/catalog/service"
	"tourism_portal_backend/platform/httpkit"
)

// Handler handles HTTP requests for the public catalog.
type Handler struct {
	svc *service.Service
}

// New creates a new catalog handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the catalog routes. None of them require a token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/homestays", h.ListHomestays)
	rg.GET("/homestays/:id", h.GetHomestay)
	rg.GET("/attractions", h.ListAttractions)
	rg.GET("/guides", h.ListGuides)
}

// ListHomestays lists visible homestays.
// GET /api/public/homestays
func (h *Handler) ListHomestays(c *gin.Context) {
	homestays, err := h.svc.ListHomestays(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, homestays)
}

// GetHomestay returns one visible homestay.
// GET /api/public/homestays/:id
func (h *Handler) GetHomestay(c *gin.Context) {
	homestay, err := h.svc.GetHomestay(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, homestay)
}

// ListAttractions lists attractions.
// GET /api/public/attractions
func (h *Handler) ListAttractions(c *gin.Context) {
	attractions, err := h.svc.ListAttractions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, attractions)
}

// ListGuides lists approved guides with their profiles.
// GET /api/public/guides
func (h *Handler) ListGuides(c *gin.Context) {
	guides, err := h.svc.ListGuides(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, guides)
}
