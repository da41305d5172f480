package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobboard/internal/client/storage"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

func openStore(t *testing.T, path string) (*Store, metadata.Repository) {
	t.Helper()
	st, err := storage.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st.Metadata, logging.Discard()), st.Metadata
}

// failingRepo rejects every call.
type failingRepo struct {
	err error
}

func (f failingRepo) Get(context.Context, string) ([]byte, error)      { return nil, f.err }
func (f failingRepo) SetMany(context.Context, map[string][]byte) error { return f.err }
func (f failingRepo) DeleteMany(context.Context, ...string) error      { return f.err }

func get(t *testing.T, repo metadata.Repository, key string) []byte {
	t.Helper()
	v, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestSave_PersistsAllKeys(t *testing.T) {
	ctx := context.Background()
	s, repo := openStore(t, filepath.Join(t.TempDir(), "s.db"))

	s.Save(ctx, "tok-1", &models.User{ID: "u1", Email: "a@b.c", Role: "COMPANY"})

	require.Equal(t, []byte("tok-1"), get(t, repo, common.TokenKey))

	var u models.User
	require.NoError(t, json.Unmarshal(get(t, repo, common.UserKey), &u))
	require.Equal(t, "u1", u.ID)

	var composite authStorage
	require.NoError(t, json.Unmarshal(get(t, repo, common.AuthStorageKey), &composite))
	require.Equal(t, "tok-1", composite.Token)
	require.True(t, composite.IsAuthenticated)
	require.Equal(t, "COMPANY", composite.User.Role)
}

func TestLoad_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "s.db")

	first, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	New(first.Metadata, nil).Save(ctx, "persisted", &models.User{ID: "u1"})
	require.NoError(t, first.Close())

	s, _ := openStore(t, path)
	require.Equal(t, "", s.Token())

	snap := s.Load(ctx)
	require.Equal(t, "persisted", snap.Token)
	require.Equal(t, "u1", snap.User.ID)
	require.Equal(t, "persisted", s.Token())
	require.Equal(t, "u1", s.User().ID)
}

func TestLoad_FallsBackToCompositeRecord(t *testing.T) {
	ctx := context.Background()
	s, repo := openStore(t, filepath.Join(t.TempDir(), "s.db"))

	require.NoError(t, repo.SetMany(ctx, map[string][]byte{
		common.AuthStorageKey: []byte(`{"token":"from-composite","user":{"id":"u9","role":"ADMIN"},"isAuthenticated":true}`),
	}))

	snap := s.Load(ctx)
	require.Equal(t, "from-composite", snap.Token)
	require.Equal(t, "u9", snap.User.ID)
}

func TestLoad_Empty(t *testing.T) {
	s, _ := openStore(t, filepath.Join(t.TempDir(), "s.db"))

	snap := s.Load(context.Background())
	require.True(t, snap.Empty())
	require.Nil(t, snap.User)
}

func TestSaveToken_KeepsUser(t *testing.T) {
	ctx := context.Background()
	s, repo := openStore(t, filepath.Join(t.TempDir(), "s.db"))

	s.Save(ctx, "old", &models.User{ID: "u1"})
	s.SaveToken(ctx, "new")

	require.Equal(t, "new", s.Token())
	require.Equal(t, "u1", s.User().ID)

	v, err := repo.Get(ctx, common.TokenKey)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestClear_RemovesEverythingAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, repo := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, repo.SetMany(ctx, map[string][]byte{"unrelated": []byte("x")}))

	s.Save(ctx, "tok", &models.User{ID: "u1"})
	s.Clear(ctx)
	s.Clear(ctx)

	require.Equal(t, "", s.Token())
	require.Nil(t, s.User())

	for _, k := range []string{common.TokenKey, common.UserKey, common.AuthStorageKey} {
		require.Nil(t, get(t, repo, k), k)
	}
	require.Equal(t, []byte("x"), get(t, repo, "unrelated"))
}

func TestSave_EmptyTokenClears(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, filepath.Join(t.TempDir(), "s.db"))

	s.Save(ctx, "tok", &models.User{ID: "u1"})
	s.Save(ctx, "", nil)

	require.True(t, s.Load(ctx).Empty())
}

func TestStorageFailure_IsSwallowedAndLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	s := New(failingRepo{err: errors.New("disk full")}, logging.NewZapLogger(zap.New(core)))

	require.NotPanics(t, func() {
		s.Save(ctx, "tok", &models.User{ID: "u1"})
	})

	require.Equal(t, "tok", s.Token())
	require.Equal(t, "tok", s.Load(ctx).Token)

	s.Clear(ctx)
	require.Equal(t, "", s.Token())

	require.GreaterOrEqual(t, logs.FilterMessage("persist session failed, keeping it in memory").Len(), 1)
	require.GreaterOrEqual(t, logs.FilterMessage("load session failed").Len(), 1)
	require.GreaterOrEqual(t, logs.FilterMessage("clear persisted session failed").Len(), 1)
}

func TestMemoryOnly(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	s.Save(ctx, "tok", nil)
	assert.Equal(t, "tok", s.Load(ctx).Token)
	s.Clear(ctx)
	assert.True(t, s.Load(ctx).Empty())
}

func TestUser_ReturnsCopy(t *testing.T) {
	s := New(nil, nil)
	s.Save(context.Background(), "tok", &models.User{ID: "u1", Name: "Ann"})

	u := s.User()
	u.Name = "changed"

	require.Equal(t, "Ann", s.User().Name)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, filepath.Join(t.TempDir(), "s.db"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SaveToken(ctx, "tok")
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.User()
		}()
	}
	wg.Wait()

	require.Equal(t, "tok", s.Token())
}
