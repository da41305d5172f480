// Package wire decodes the backend's response envelope
// {success, message?, data?} and pulls the token and user out of the
// several shapes auth endpoints are known to return.
package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// TokenPaths are tried in order; the first non-empty string wins.
var TokenPaths = []string{"data.token", "token", "data.user.token"}

// UserPaths are tried in order; the first object with an id or email wins.
var UserPaths = []string{"data.user", "user", "data"}

var ErrNoData = errors.New("response has no data")

// Envelope is the common response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode parses body as an envelope. An empty body decodes to a successful
// envelope without data.
func Decode(body []byte) (Envelope, error) {
	var env Envelope
	if len(bytes.TrimSpace(body)) == 0 {
		env.Success = true
		return env, nil
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// ServerMessage returns the human message of an error body, if any.
func ServerMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, p := range []string{"message", "error"} {
		if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// ExtractToken returns the bearer token from the first matching path.
func ExtractToken(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	for _, p := range TokenPaths {
		if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.Str != "" {
			return v.Str, true
		}
	}
	return "", false
}

// ExtractUser returns the user object from the first matching path.
func ExtractUser(body []byte) (*models.User, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	for _, p := range UserPaths {
		v := gjson.GetBytes(body, p)
		if !v.IsObject() {
			continue
		}
		if !v.Get("id").Exists() && !v.Get("email").Exists() {
			continue
		}
		var u models.User
		if err := json.Unmarshal([]byte(v.Raw), &u); err != nil {
			continue
		}
		return &u, true
	}
	return nil, false
}

// DecodeData unmarshals the envelope's data into T.
func DecodeData[T any](env Envelope) (T, error) {
	var v T
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return v, ErrNoData
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, fmt.Errorf("decode data: %w", err)
	}
	return v, nil
}
