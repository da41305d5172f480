package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated identity held by the session manager.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	Role        Role
	Token       string
	// ExpiresAt is zero unless Token is a JWT with an exp claim. The value is
	// read without verification and only used for display.
	ExpiresAt time.Time
}

func NewSession(u User, token string) *Session {
	return &Session{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.Name,
		Role:        u.DomainRole(),
		Token:       token,
		ExpiresAt:   TokenExpiry(token),
	}
}

// User rebuilds the wire snapshot persisted next to the token.
func (s *Session) User() User {
	return User{
		ID:       s.UserID,
		Name:     s.DisplayName,
		Email:    s.Email,
		Role:     s.Role.Wire(),
		IsActive: true,
	}
}

// TokenExpiry returns the exp claim of an unverified JWT, or the zero time
// for opaque tokens.
func TokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
