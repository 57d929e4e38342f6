package handler

import (
	"net/http"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/host/service"
	"tourism_portal_backend/internal/host/transport"
	"tourism_portal_backend/platform/httpkit"
	"tourism_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidAction = "Invalid action"

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.POST("/homestays", h.AddHomestay)
	rg.PUT("/homestays/:id/upi-qr", h.UpdateUpiQr)
	rg.DELETE("/homestays/:id", h.DeleteHomestay)
	rg.POST("/offline-booking", h.CreateOfflineBooking)
	rg.PUT("/bookings/:id/status/:action", h.ReviewBooking)
	rg.PUT("/bookings/:id/approve", h.reviewPayment(domain.ActionApprove))
	rg.PUT("/bookings/:id/reject", h.reviewPayment(domain.ActionReject))
}

func (h *Handler) Dashboard(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	resp, err := h.svc.Dashboard(c.Request.Context(), principal.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AddHomestay(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.CreateHomestayRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.AddHomestay(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) UpdateUpiQr(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.UpiQrRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.UpdateUpiQr(c.Request.Context(), principal.Email, c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteHomestay(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	resp, err := h.svc.DeleteHomestay(c.Request.Context(), principal.Email, c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) CreateOfflineBooking(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.OfflineBookingRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.CreateOfflineBooking(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) ReviewBooking(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	action, valid := domain.ParseReviewAction(c.Param("action"))
	if !valid {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAction)
		return
	}

	resp, err := h.svc.ReviewBooking(c.Request.Context(), principal.Email, c.Param("id"), action)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) reviewPayment(action domain.ReviewAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := httpkit.MustGetPrincipal(c)
		if !ok {
			return
		}

		resp, err := h.svc.ReviewPayment(c.Request.Context(), principal.Email, c.Param("id"), action)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, resp)
	}
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
