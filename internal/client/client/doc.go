// Package client is the HTTP core every backend call goes through.
//
// # Overview
//
// Client wraps a resty client configured with the API base URL and request
// timeout. Before each send it reads the bearer token from the token store,
// so a token refreshed by another goroutine is picked up by the next request
// without any extra wiring. Each logical call carries an X-Request-ID that is
// kept when the call is retried.
//
// # Expired tokens
//
// A 401 on an ordinary call asks the refresh coordinator for a new token and
// replays the call once with it. Concurrent 401s share a single refresh. The
// replay is final: its failure is returned as is. Calls marked SkipRefresh
// and the refresh call itself never trigger a refresh.
//
// # Error Handling
//
// Non-2xx responses and 2xx envelopes with success=false come back as
// *APIError, which unwraps to a sentinel for its status class so callers can
// use errors.Is: ErrUnauthorized, ErrThrottled, ErrForbidden, ErrNotFound,
// ErrBadRequest, ErrServer, ErrRejected. Transport failures (no response)
// wrap ErrUnavailable. A failed refresh wraps ErrRefreshFailed.
//
// A 429 additionally pushes a throttling notice to the notifier; when the
// throttled call was the refresh itself the stored session is dropped.
package client
