package handler

import (
	"net/http"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/moderation/service"
	"tourism_portal_backend/internal/moderation/transport"
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
	rg.GET("/stats", h.Stats)

	rg.GET("/users", h.ListUsers)
	rg.PUT("/users/:email", h.UpdateUser)
	rg.DELETE("/users/:email", h.DeleteUser)
	rg.PATCH("/guides/approve", h.ApproveGuide)
	rg.PATCH("/guides/reject/:id", h.RejectGuide)

	rg.GET("/homestays", h.ListHomestays)
	rg.POST("/homestays", h.CreateHomestay)
	rg.PUT("/homestays/:id", h.UpdateHomestay)
	rg.PATCH("/homestays/approve/:id", h.ApproveHomestay)
	rg.DELETE("/homestays/:id", h.DeleteHomestay)
	rg.PUT("/homestays/:id/upi-qr", h.UpdateUpiQr)

	rg.GET("/attractions", h.ListAttractions)
	rg.POST("/attractions", h.CreateAttraction)
	rg.PUT("/attractions/:id", h.UpdateAttraction)
	rg.DELETE("/attractions/:id", h.DeleteAttraction)

	rg.GET("/bookings", h.ListBookings)
	rg.PATCH("/bookings/:id/status", h.SetBookingStatus)
	rg.PUT("/bookings/:id/approve-payment", h.reviewPayment(domain.ActionApprove))
	rg.PUT("/bookings/:id/reject-payment", h.reviewPayment(domain.ActionReject))
	rg.DELETE("/bookings/:id", h.DeleteBooking)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, users)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req transport.UpdateUserRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("email"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	resp, err := h.svc.DeleteUser(c.Request.Context(), c.Param("email"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ApproveGuide(c *gin.Context) {
	var req transport.ApproveGuideRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.ApproveGuide(c.Request.Context(), req.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) RejectGuide(c *gin.Context) {
	resp, err := h.svc.RejectGuide(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListHomestays(c *gin.Context) {
	homestays, err := h.svc.ListHomestays(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, homestays)
}

func (h *Handler) CreateHomestay(c *gin.Context) {
	var req transport.CreateHomestayRequest
	if !h.bind(c, &req) {
		return
	}

	homestay, err := h.svc.CreateHomestay(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, homestay)
}

func (h *Handler) UpdateHomestay(c *gin.Context) {
	var req transport.UpdateHomestayRequest
	if !h.bind(c, &req) {
		return
	}

	homestay, err := h.svc.UpdateHomestay(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, homestay)
}

func (h *Handler) ApproveHomestay(c *gin.Context) {
	resp, err := h.svc.ApproveHomestay(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteHomestay(c *gin.Context) {
	resp, err := h.svc.DeleteHomestay(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateUpiQr(c *gin.Context) {
	var req transport.UpiQrRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.UpdateUpiQr(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListAttractions(c *gin.Context) {
	attractions, err := h.svc.ListAttractions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, attractions)
}

func (h *Handler) CreateAttraction(c *gin.Context) {
	var req transport.CreateAttractionRequest
	if !h.bind(c, &req) {
		return
	}

	attraction, err := h.svc.CreateAttraction(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, attraction)
}

func (h *Handler) UpdateAttraction(c *gin.Context) {
	var req transport.UpdateAttractionRequest
	if !h.bind(c, &req) {
		return
	}

	attraction, err := h.svc.UpdateAttraction(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, attraction)
}

func (h *Handler) DeleteAttraction(c *gin.Context) {
	resp, err := h.svc.DeleteAttraction(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.svc.ListBookings(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, bookings)
}

func (h *Handler) SetBookingStatus(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.BookingStatusRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.SetBookingStatus(c.Request.Context(), principal.Email, c.Param("id"), req.Status)
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

func (h *Handler) DeleteBooking(c *gin.Context) {
	resp, err := h.svc.DeleteBooking(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
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
