// Package refresh serialises token refreshes: however many callers find
// their token expired at the same time, only one refresh call is made and
// every caller receives its outcome.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

// DefaultTimeout bounds a refresh call when no WithTimeout option is given.
const DefaultTimeout = 10 * time.Second

var (
	ErrRefreshFailed = errors.New("token refresh failed")
	ErrNoToken       = errors.New("no token in refresh response")
)

// Result is what a successful refresh call yields. User is nil when the
// response does not carry one.
type Result struct {
	Token string
	User  *models.User
}

// Func performs the refresh call itself.
type Func func(ctx context.Context) (Result, error)

// TokenWriter is the part of the token store the coordinator updates.
type TokenWriter interface {
	Save(ctx context.Context, token string, user *models.User)
	Clear(ctx context.Context)
}

// State names the coordinator state for diagnostics.
type State string

const (
	StateIdle       State = "idle"
	StateRefreshing State = "refreshing"
)

type state interface {
	name() State
}

type idle struct{}

func (idle) name() State { return StateIdle }

type refreshing struct {
	waiters []*waiter
}

func (*refreshing) name() State { return StateRefreshing }

type outcome struct {
	token string
	err   error
}

type waiter struct {
	ch        chan outcome
	cancelled bool
}

// Coordinator runs at most one refresh at a time and shares its outcome
// with every caller queued behind it.
type Coordinator struct {
	fn      Func
	store   TokenWriter
	log     logging.Logger
	timeout time.Duration

	mu    sync.Mutex
	state state
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout bounds each refresh call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns an idle coordinator that calls fn to refresh and writes the
// outcome to store.
func New(fn Func, store TokenWriter, opts ...Option) *Coordinator {
	c := &Coordinator{
		fn:      fn,
		store:   store,
		log:     logging.Discard(),
		timeout: DefaultTimeout,
		state:   idle{},
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "refresh")
	return c
}

// Refresh returns a fresh token, joining the refresh already in flight if
// there is one. A caller leaving through ctx does not stop the refresh for
// the others.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	w := &waiter{ch: make(chan outcome, 1)}

	c.mu.Lock()
	switch st := c.state.(type) {
	case idle:
		c.state = &refreshing{waiters: []*waiter{w}}
		go c.run(context.WithoutCancel(ctx))
	case *refreshing:
		st.waiters = append(st.waiters, w)
	}
	c.mu.Unlock()

	select {
	case o := <-w.ch:
		return o.token, o.err
	case <-ctx.Done():
		c.mu.Lock()
		w.cancelled = true
		c.mu.Unlock()
		return "", ctx.Err()
	}
}

func (c *Coordinator) run(ctx context.Context) {
	started := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	res, err := c.fn(callCtx)
	cancel()

	if err == nil && res.Token == "" {
		err = ErrNoToken
	}

	if err != nil {
		c.store.Clear(ctx)
		err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		c.log.Warn(ctx, "refresh failed, session cleared", "error", err, "elapsed", time.Since(started))
		c.settle(outcome{err: err})
		return
	}

	c.store.Save(ctx, res.Token, res.User)
	c.log.Debug(ctx, "token refreshed", "elapsed", time.Since(started))
	c.settle(outcome{token: res.Token})
}

// settle returns to idle and resolves every remaining waiter in arrival
// order with the same outcome.
func (c *Coordinator) settle(o outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state.(*refreshing)
	c.state = idle{}
	if !ok {
		return
	}
	for _, w := range st.waiters {
		if w.cancelled {
			continue
		}
		w.ch <- o
	}
}

// State reports whether a refresh is in flight.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.name()
}

// Pending returns the number of callers still waiting on the current
// refresh.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.state.(*refreshing)
	if !ok {
		return 0
	}
	n := 0
	for _, w := range st.waiters {
		if !w.cancelled {
			n++
		}
	}
	return n
}
