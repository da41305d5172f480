// Package navigate routes the user after authentication state changes.
package navigate

import (
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

const (
	LoginPath            = "/login"
	AdminHomePath        = "/admin"
	CompanyDashboardPath = "/company/dashboard"
	SeekerDashboardPath  = "/dashboard"
)

// Navigator receives redirect targets.
type Navigator interface {
	Navigate(path string)
}

type Func func(path string)

func (f Func) Navigate(path string) { f(path) }

var Discard Navigator = Func(func(string) {})

// HomeFor returns the landing page for role.
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminHomePath
	case models.RoleCompany:
		return CompanyDashboardPath
	default:
		return SeekerDashboardPath
	}
}

// History records every navigation in order.
type History struct {
	mu    sync.Mutex
	paths []string
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
}

func (h *History) Paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.paths))
	copy(out, h.paths)
	return out
}

// Last returns the most recent path or "".
func (h *History) Last() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.paths) == 0 {
		return ""
	}
	return h.paths[len(h.paths)-1]
}
