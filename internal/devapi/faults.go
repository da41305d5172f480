package devapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
)

type fault struct {
	status int
	// remaining <= 0 means the fault stays until cleared.
	remaining int
}

type faultTable struct {
	mu sync.Mutex
	m  map[string]*fault
}

func newFaultTable() *faultTable {
	return &faultTable{m: map[string]*fault{}}
}

// faultKey normalises "GET", "/api/jobs/:id" and "get", "jobs/:id" alike.
func faultKey(prefix, method, path string) string {
	path = strings.TrimPrefix(path, prefix)
	return strings.ToUpper(method) + " " + strings.Trim(path, "/")
}

func (f *faultTable) set(key string, status, times int) {
	f.mu.Lock()
	f.m[key] = &fault{status: status, remaining: times}
	f.mu.Unlock()
}

func (f *faultTable) take(key string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ft, ok := f.m[key]
	if !ok {
		return 0, false
	}
	if ft.remaining > 0 {
		ft.remaining--
		if ft.remaining == 0 {
			delete(f.m, key)
		}
	}
	return ft.status, true
}

func (f *faultTable) reset() {
	f.mu.Lock()
	clear(f.m)
	f.mu.Unlock()
}

// injectFaults short-circuits matched routes with the configured status.
func (s *Server) injectFaults(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := faultKey(s.prefix, c.Request().Method, c.Path())
		if status, ok := s.faults.take(key); ok {
			s.logger.Debug(c.Request().Context(), "injected fault", "route", key, "status", status)
			if strings.HasSuffix(key, "auth/refresh") {
				s.refreshCalls.Add(1)
			}
			msg := http.StatusText(status)
			if status == http.StatusTooManyRequests {
				msg = "Too many requests, please try again later"
			}
			return fail(c, status, msg)
		}
		return next(c)
	}
}
