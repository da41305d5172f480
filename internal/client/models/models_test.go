package models

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleFromWire(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{"COMPANY", RoleCompany},
		{"USER", RoleSeeker},
		{"", RoleSeeker},
		{"MODERATOR", RoleSeeker},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleFromWire(tt.in), "RoleFromWire(%q)", tt.in)
	}
}

func TestRole_WireRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleSeeker, RoleCompany, RoleAdmin} {
		assert.Equal(t, r, RoleFromWire(r.Wire()))
	}
}

func TestNewSession_FromUser(t *testing.T) {
	u := User{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: "COMPANY"}
	s := NewSession(u, "opaque")

	require.Equal(t, "u1", s.UserID)
	require.Equal(t, "Ann", s.DisplayName)
	require.Equal(t, RoleCompany, s.Role)
	require.Equal(t, "opaque", s.Token)
	require.True(t, s.ExpiresAt.IsZero())

	back := s.User()
	require.Equal(t, "COMPANY", back.Role)
	require.Equal(t, u.Email, back.Email)
}

func TestTokenExpiry_ReadsUnverifiedJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("any-key"))
	require.NoError(t, err)

	require.True(t, exp.Equal(TokenExpiry(signed)))
}

func TestTokenExpiry_OpaqueOrEmpty(t *testing.T) {
	require.True(t, TokenExpiry("").IsZero())
	require.True(t, TokenExpiry("not-a-jwt").IsZero())

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"})
	signed, err := noExp.SignedString([]byte("k"))
	require.NoError(t, err)
	require.True(t, TokenExpiry(signed).IsZero())
}

func TestJobFilter_Params(t *testing.T) {
	remote := false
	f := JobFilter{
		Search:    "go",
		SalaryMin: 1000,
		Remote:    &remote,
	}

	require.Equal(t, map[string]string{
		"page":       "2",
		"search":     "go",
		"salary_min": "1000",
		"remote":     "false",
	}, f.Params(2))
}

func TestJobFilter_Params_DefaultsPage(t *testing.T) {
	require.Equal(t, map[string]string{"page": "1"}, JobFilter{}.Params(0))
}

func TestApplicationStatus_Valid(t *testing.T) {
	for _, s := range []ApplicationStatus{StatusPending, StatusReviewing, StatusAccepted, StatusRejected} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ApplicationStatus("pending").Valid())
	assert.False(t, ApplicationStatus("").Valid())
}
