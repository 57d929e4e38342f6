package handler

import (
	"net/http"

	"tourism_portal_backend/internal/identity/service"
	"tourism_portal_backend/internal/identity/transport"
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

// RegisterPublicRoutes mounts signup and login.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
}

// RegisterAdminRoutes mounts the two admin login steps. The caller adds
// rate limiting.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.AdminLogin)
	rg.POST("/verify", h.AdminVerify)
}

// RegisterSelfRoutes mounts the caller's own profile. The group must be
// authenticated.
func (h *Handler) RegisterSelfRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetMe)
	rg.PATCH("", h.UpdateMe)
}

func (h *Handler) Signup(c *gin.Context) {
	var req transport.SignupRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Signup(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req transport.AdminLoginRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.AdminLogin(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AdminVerify(c *gin.Context) {
	var req transport.AdminVerifyRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.AdminVerify(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetMe(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), principal.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"user": user})
}

func (h *Handler) UpdateMe(c *gin.Context) {
	principal, ok := httpkit.MustGetPrincipal(c)
	if !ok {
		return
	}

	var req transport.UpdateMeRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.UpdateMe(c.Request.Context(), principal.Email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"user": user})
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
