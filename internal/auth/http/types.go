package http

import "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,min=5,max=100"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
