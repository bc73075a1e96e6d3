package domain

import (
	"net/http"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

var (
	ErrEmailAlreadyExists  = result.NewError(http.StatusBadRequest, "Email already exists")
	ErrProviderUnavailable = result.NewError(http.StatusInternalServerError, "Can't create user. Try again later")
	ErrInvalidInput        = result.NewError(http.StatusBadRequest, "Invalid sign up data")
	ErrInvalidUser         = result.NewError(http.StatusBadRequest, "Invalid user")
	ErrBadCredentials      = result.NewError(http.StatusBadRequest, "Bad credentials")
	ErrUnauthorized        = result.NewError(http.StatusUnauthorized, "Unauthorized")
	ErrInvalidCredentials  = result.NewError(http.StatusUnauthorized, "Invalid credentials")
)
