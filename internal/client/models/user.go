// Package models defines the job board's domain types and their wire shapes.
package models

import "strings"

// Role is the client-side classification of an account.
type Role string

const (
	RoleSeeker  Role = "seeker"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Roles as the backend spells them.
const (
	WireRoleUser    = "USER"
	WireRoleCompany = "COMPANY"
	WireRoleAdmin   = "ADMIN"
)

// RoleFromWire maps a backend role onto Role. Unknown and empty values are
// treated as job seekers.
func RoleFromWire(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case WireRoleAdmin:
		return RoleAdmin
	case WireRoleCompany:
		return RoleCompany
	default:
		return RoleSeeker
	}
}

// Wire returns the backend spelling of r.
func (r Role) Wire() string {
	switch r {
	case RoleAdmin:
		return WireRoleAdmin
	case RoleCompany:
		return WireRoleCompany
	default:
		return WireRoleUser
	}
}

func (r Role) String() string {
	return string(r)
}

// User is the account record returned by auth and admin endpoints.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
	Count    *Count `json:"_count,omitempty"`
}

// Count carries relation counters attached by the backend.
type Count struct {
	Applications int `json:"applications"`
}

func (u User) DomainRole() Role {
	return RoleFromWire(u.Role)
}
