package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/notify"
	"github.com/dmitrijs2005/jobboard/internal/client/refresh"
	"github.com/dmitrijs2005/jobboard/internal/client/wire"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

const (
	DefaultBaseURL = "http://localhost:3000/api"
	DefaultTimeout = 15 * time.Second

	RefreshPath = "auth/refresh"
)

// TokenStore is the session storage the client reads and the refresh
// coordinator writes.
type TokenStore interface {
	Token() string
	Save(ctx context.Context, token string, user *models.User)
	Clear(ctx context.Context)
}

type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RefreshTimeout time.Duration
	Logger         logging.Logger
	Notifier       notify.Notifier
}

// Request describes one logical API call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "jobs/42".
	Path  string
	Query map[string]string
	Body  any
	File  *File
	// SkipRefresh returns a 401 to the caller instead of refreshing.
	SkipRefresh bool
}

// File is sent as a multipart form field. Data is kept in memory so the
// request can be replayed after a refresh.
type File struct {
	Field string
	Name  string
	Data  []byte
}

type Response struct {
	StatusCode int
	Body       []byte
	Envelope   wire.Envelope
}

// attempt tracks one logical call across its sends.
type attempt struct {
	req       Request
	requestID string
	retried   bool
	refresh   bool
	// bearer is the token the last send carried.
	bearer string
}

type Client struct {
	rc       *resty.Client
	store    TokenStore
	coord    *refresh.Coordinator
	log      logging.Logger
	notifier notify.Notifier
}

func New(store TokenStore, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}

	c := &Client{
		store:    store,
		log:      opts.Logger.With("component", "http"),
		notifier: opts.Notifier,
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	rc.JSONMarshal = json.Marshal
	rc.JSONUnmarshal = json.Unmarshal

	// The bearer is read here rather than when the request is built, so a
	// refresh that lands in between is honoured. A retry sets its token
	// explicitly and is left alone.
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Token == "" {
			r.SetAuthToken(store.Token())
		}
		return nil
	})
	c.rc = rc

	c.coord = refresh.New(c.refreshCall, store,
		refresh.WithTimeout(opts.RefreshTimeout),
		refresh.WithLogger(opts.Logger),
	)

	return c
}

// Coordinator exposes the refresh coordinator for diagnostics.
func (c *Client) Coordinator() *refresh.Coordinator {
	return c.coord
}

// Refresh obtains a new token through the coordinator.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.coord.Refresh(ctx)
}

// Do sends req, refreshing the token and replaying once on a 401.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	a := &attempt{req: req, requestID: uuid.NewString()}

	res, err := c.send(ctx, a, "")
	if err == nil {
		return res, nil
	}

	if !errors.Is(err, ErrUnauthorized) || a.retried || a.refresh || req.SkipRefresh {
		return nil, err
	}

	a.retried = true

	// A refresh that settled while this call was in flight already replaced
	// the token the server rejected.
	if current := c.store.Token(); current != "" && current != a.bearer {
		c.log.Debug(ctx, "unauthorized with a stale token, replaying", "path", req.Path, "request_id", a.requestID)
		return c.send(ctx, a, current)
	}

	c.log.Debug(ctx, "unauthorized, refreshing token", "path", req.Path, "request_id", a.requestID)

	token, rerr := c.coord.Refresh(ctx)
	if rerr != nil {
		return nil, rerr
	}

	return c.send(ctx, a, token)
}

func (c *Client) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) send(ctx context.Context, a *attempt, token string) (*Response, error) {
	r := c.rc.R().
		SetContext(ctx).
		SetHeader(common.RequestIDHeader, a.requestID)

	if token != "" {
		r.SetAuthToken(token)
	}
	if len(a.req.Query) > 0 {
		r.SetQueryParams(a.req.Query)
	}
	if a.req.Body != nil {
		r.SetBody(a.req.Body)
	}
	if f := a.req.File; f != nil {
		r.SetFileReader(f.Field, f.Name, bytes.NewReader(f.Data))
	}

	resp, err := r.Execute(a.req.Method, a.req.Path)
	a.bearer = r.Token
	if err != nil {
		c.log.Warn(ctx, "request failed", "path", a.req.Path, "request_id", a.requestID, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, a.req.Method, a.req.Path, err)
	}

	status := resp.StatusCode()
	body := resp.Body()

	if status == http.StatusTooManyRequests {
		c.notifier.Notify(ctx, notify.Error, ThrottledMessage)
		if a.refresh {
			c.store.Clear(ctx)
		}
		c.log.Warn(ctx, "throttled", "path", a.req.Path, "request_id", a.requestID)
		return nil, newAPIError(status, wire.ServerMessage(body))
	}

	if status < 200 || status >= 300 {
		c.log.Debug(ctx, "request rejected", "path", a.req.Path, "status", status, "request_id", a.requestID)
		return nil, newAPIError(status, wire.ServerMessage(body))
	}

	env, err := wire.Decode(body)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return nil, newAPIError(status, msg)
	}

	return &Response{StatusCode: status, Body: body, Envelope: env}, nil
}

func (c *Client) refreshCall(ctx context.Context) (refresh.Result, error) {
	a := &attempt{
		req:       Request{Method: http.MethodPost, Path: RefreshPath},
		requestID: uuid.NewString(),
		refresh:   true,
	}

	res, err := c.send(ctx, a, "")
	if err != nil {
		return refresh.Result{}, err
	}

	token, ok := wire.ExtractToken(res.Body)
	if !ok {
		return refresh.Result{}, ErrNoToken
	}
	user, _ := wire.ExtractUser(res.Body)
	return refresh.Result{Token: token, User: user}, nil
}

// Decode unmarshals the response data into T.
func Decode[T any](res *Response) (T, error) {
	return wire.DecodeData[T](res.Envelope)
}
