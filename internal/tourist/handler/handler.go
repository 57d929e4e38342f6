package handler

import (
	"net/http"

	"tourism_portal_backend/internal/tourist/service"
	"tourism_portal_backend/internal/tourist/transport"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:email", h.ListBookings)

	// Older clients post to the group root.
	rg.POST("", h.CreateBooking)
	rg.GET("/:email", h.ListBookings)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.CreateBookingRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, validator.Message(err))
		return
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, booking)
}

func (h *Handler) ListBookings(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	bookings, err := h.svc.ListBookings(c.Request.Context(), principal.Email, c.Param("email"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, bookings)
}
