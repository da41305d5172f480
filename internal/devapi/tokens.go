package devapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/common"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user id and wire role next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

type refreshEntry struct {
	userID  string
	expires time.Time
}

// tokenIssuer signs access tokens and remembers which of them are still
// honoured. Access tokens are accepted by protected routes only while live;
// every issued token stays known to /auth/refresh until its user logs out.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	live    map[string]string
	known   map[string]string
	refresh map[string]refreshEntry
}

func newTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, now func() time.Time) *tokenIssuer {
	return &tokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
		live:       map[string]string{},
		known:      map[string]string{},
		refresh:    map[string]refreshEntry{},
	}
}

func (t *tokenIssuer) issueAccess(u models.User) (string, error) {
	now := t.now()
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
		UserID: u.ID,
		Role:   u.Role,
	})

	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	t.mu.Lock()
	t.live[jti] = u.ID
	t.known[jti] = u.ID
	t.mu.Unlock()

	return s, nil
}

func (t *tokenIssuer) issueRefresh(userID string) (string, time.Time, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", time.Time{}, err
	}
	expires := t.now().Add(t.refreshTTL)

	t.mu.Lock()
	t.refresh[token] = refreshEntry{userID: userID, expires: expires}
	t.mu.Unlock()

	return token, expires, nil
}

func (t *tokenIssuer) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// authenticate accepts unexpired, live access tokens.
func (t *tokenIssuer) authenticate(token string) (*Claims, error) {
	claims, err := t.parse(token)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live[claims.ID]; !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// inspect checks the signature only.
func (t *tokenIssuer) inspect(token string) (*Claims, error) {
	return t.parse(token, jwt.WithoutClaimsValidation())
}

// fromAccess returns the owner of a previously issued access token,
// ignoring its expiry.
func (t *tokenIssuer) fromAccess(token string) (string, bool) {
	claims, err := t.inspect(token)
	if err != nil {
		return "", false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	uid, ok := t.known[claims.ID]
	return uid, ok
}

func (t *tokenIssuer) fromRefresh(token string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.refresh[token]
	if !ok {
		return "", false
	}
	if !t.now().Before(e.expires) {
		delete(t.refresh, token)
		return "", false
	}
	return e.userID, true
}

func (t *tokenIssuer) revokeAccess(jti string) {
	t.mu.Lock()
	delete(t.live, jti)
	delete(t.known, jti)
	t.mu.Unlock()
}

func (t *tokenIssuer) revokeRefresh(token string) {
	t.mu.Lock()
	delete(t.refresh, token)
	t.mu.Unlock()
}

// expireAccess makes every live access token fail with 401 while leaving
// them usable for a refresh.
func (t *tokenIssuer) expireAccess() {
	t.mu.Lock()
	clear(t.live)
	t.mu.Unlock()
}
