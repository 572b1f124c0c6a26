package auth

import (
	"github.com/sewnstudio/atelier-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// GuestSessionResponse carries the device-scoped guest token. Guest sessions
// can browse and build carts but cannot check out or save measurements.
type GuestSessionResponse struct {
	AccessToken string `json:"access_token"`
}
