// Package tokenstore holds the bearer token and the signed-in user's
// snapshot. Reads are served from memory; writes go to memory first and are
// then persisted through a metadata repository so that a session survives a
// restart. Persistence failures are logged and otherwise ignored.
package tokenstore

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

// Snapshot is a copy of the stored session.
type Snapshot struct {
	Token string
	User  *models.User
}

func (s Snapshot) Empty() bool {
	return s.Token == ""
}

// authStorage is the composite record kept under common.AuthStorageKey.
type authStorage struct {
	Token           string       `json:"token"`
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type Store struct {
	repo metadata.Repository
	log  logging.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

// New returns a store persisting to repo. A nil repo keeps the session in
// memory only.
func New(repo metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{repo: repo, log: log.With("component", "tokenstore")}
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the stored user snapshot or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// Save replaces the token and, when user is non-nil, the user snapshot.
// An empty token clears the store.
func (s *Store) Save(ctx context.Context, token string, user *models.User) {
	if token == "" {
		s.Clear(ctx)
		return
	}

	s.mu.Lock()
	s.token = token
	if user != nil {
		s.user = cloneUser(user)
	}
	snap := Snapshot{Token: s.token, User: cloneUser(s.user)}
	s.mu.Unlock()

	s.persist(ctx, snap)
}

// SaveToken replaces the token and keeps the user snapshot.
func (s *Store) SaveToken(ctx context.Context, token string) {
	s.Save(ctx, token, nil)
}

func (s *Store) persist(ctx context.Context, snap Snapshot) {
	if s.repo == nil {
		return
	}

	composite, err := json.Marshal(authStorage{
		Token:           snap.Token,
		User:            snap.User,
		IsAuthenticated: true,
	})
	if err != nil {
		s.log.Warn(ctx, "encode auth storage", "error", err)
		return
	}

	values := map[string][]byte{
		common.TokenKey:       []byte(snap.Token),
		common.AuthStorageKey: composite,
	}
	if snap.User != nil {
		u, err := json.Marshal(snap.User)
		if err != nil {
			s.log.Warn(ctx, "encode user snapshot", "error", err)
			return
		}
		values[common.UserKey] = u
	}

	if err := s.repo.SetMany(ctx, values); err != nil {
		s.log.Warn(ctx, "persist session failed, keeping it in memory", "error", err)
	}
}

// Load reads the persisted session into memory and returns it. The token and
// user keys take precedence over the composite record. When storage cannot
// be read the in-memory copy is returned.
func (s *Store) Load(ctx context.Context) Snapshot {
	if s.repo == nil {
		return s.snapshot()
	}

	snap, err := s.read(ctx)
	if err != nil {
		s.log.Warn(ctx, "load session failed", "error", err)
		return s.snapshot()
	}

	s.mu.Lock()
	s.token = snap.Token
	s.user = cloneUser(snap.User)
	s.mu.Unlock()

	return snap
}

func (s *Store) read(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	token, err := s.repo.Get(ctx, common.TokenKey)
	if err != nil {
		return snap, err
	}
	snap.Token = string(token)

	raw, err := s.repo.Get(ctx, common.UserKey)
	if err != nil {
		return snap, err
	}
	if len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			s.log.Warn(ctx, "discarding malformed user snapshot", "error", err)
		} else {
			snap.User = &u
		}
	}

	if snap.Token != "" && snap.User != nil {
		return snap, nil
	}

	raw, err = s.repo.Get(ctx, common.AuthStorageKey)
	if err != nil {
		return snap, err
	}
	if len(raw) == 0 {
		return snap, nil
	}
	var composite authStorage
	if err := json.Unmarshal(raw, &composite); err != nil {
		s.log.Warn(ctx, "discarding malformed auth storage", "error", err)
		return snap, nil
	}
	if snap.Token == "" {
		snap.Token = composite.Token
	}
	if snap.User == nil {
		snap.User = composite.User
	}
	return snap, nil
}

// Clear drops the session from memory and storage. Safe to call repeatedly.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.repo == nil {
		return
	}
	if err := s.repo.DeleteMany(ctx, common.TokenKey, common.UserKey, common.AuthStorageKey); err != nil {
		s.log.Warn(ctx, "clear persisted session failed", "error", err)
	}
}

func (s *Store) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: cloneUser(s.user)}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Count != nil {
		cnt := *u.Count
		c.Count = &cnt
	}
	return &c
}
