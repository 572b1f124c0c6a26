package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.MemberRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID        `json:"user_id"`
	Role   enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the opaque pair the cart and checkout engines gate on.
type Identity struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

// IsGuest reports whether the identity carries guest restrictions.
func (i Identity) IsGuest() bool {
	return i.Role.IsGuest()
}
