package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/airecruiter/internal/models"
	"github.com/prepwise/airecruiter/internal/utils"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	finds   int
	inserts int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.finds++
	u, ok := f.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Insert(_ context.Context, u *models.User) error {
	f.inserts++
	if _, exists := f.byEmail[u.Email]; exists {
		return nil // conflict: do nothing
	}
	f.byEmail[u.Email] = u
	return nil
}

type fakeCache struct {
	store map[string][]byte
	gets  int
	hits  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.gets++
	b, ok := f.store[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.store[key] = b
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

func TestEnsureUser_CreatesOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeCache())

	u, err := svc.EnsureUser(context.Background(), "Ada", "https://img/a.png", "ada@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, 1, repo.inserts)
}

func TestEnsureUser_IdempotentKeepsFirstRow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	first, err := svc.EnsureUser(context.Background(), "Ada", "", "ada@example.com")
	require.NoError(t, err)

	// same email, different profile fields: existing row wins
	second, err := svc.EnsureUser(context.Background(), "Someone Else", "https://img/x.png", "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada", second.Name)
	assert.Equal(t, 1, repo.inserts)
}

func TestEnsureUser_CacheHitSkipsRepo(t *testing.T) {
	repo := newFakeUserRepo()
	c := newFakeCache()
	svc := NewUserService(repo, c)

	_, err := svc.EnsureUser(context.Background(), "Ada", "", "ada@example.com")
	require.NoError(t, err)

	findsAfterFirst := repo.finds
	u, err := svc.EnsureUser(context.Background(), "Ada", "", "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, findsAfterFirst, repo.finds)
	assert.Equal(t, 1, c.hits)
}

func TestEnsureUser_EmailRequired(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)

	_, err := svc.EnsureUser(context.Background(), "Ada", "", "")
	requireCode(t, err, utils.CodeInvalidArgument)
}
