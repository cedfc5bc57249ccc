package dto

import (
	"time"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
)

// SignInRequest carries the signed identity assertion produced by the
// OAuth sign-in service, plus the provider token material to persist on
// the account link.
type SignInRequest struct {
	Assertion   string `json:"assertion" binding:"required"`
	AccessToken string `json:"accessToken,omitempty"`
	IDToken     string `json:"idToken,omitempty"`
}

// SessionResponse is the enriched session returned to the client. Role
// and identity fields always reflect the directory record when one
// exists, never the provider's latest claims.
type SessionResponse struct {
	UserID     string      `json:"userId"`
	Email      string      `json:"email"`
	FirstName  string      `json:"firstName"`
	MiddleName *string     `json:"middleName,omitempty"`
	LastName   string      `json:"lastName"`
	Role       models.Role `json:"role"`
	Image      *string     `json:"image,omitempty"`
	ExpiresAt  time.Time   `json:"expiresAt"`
}
