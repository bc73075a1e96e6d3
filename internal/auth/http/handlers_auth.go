package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/api/http/request"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
)

// SignUp creates an account and its stored profile detail.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !request.Bind(c, &req) {
		return
	}

	res := h.authService.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password)
	c.JSON(res.Code, res)
}

// SignIn exchanges email and password for a session.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if !request.Bind(c, &req) {
		return
	}

	res := h.authService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	c.JSON(res.Code, res)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !request.Bind(c, &req) {
		return
	}

	res := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	c.JSON(res.Code, res)
}

// SignOut revokes every refresh token of the caller. The ID token itself
// stays valid until it expires.
func (h *Handler) SignOut(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	res := h.authService.RevokeToken(c.Request.Context(), user.ID)
	c.JSON(res.Code, res)
}
