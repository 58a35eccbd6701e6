package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/docstore"
)

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, docstore.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, docstore.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, id string, fields bson.M) error {
	u, ok := f.users[id]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "address":
			u.Address = v.(string)
		case "photoUrl":
			u.PhotoURL = v.(string)
		case "role":
			u.Role = v.(string)
		}
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) All(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Maria", "Maria@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "maria@example.com", user.Email) // normalized
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, _, err = svc.Register(ctx, "Maria Again", "maria@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)

	logged, token2, err := svc.Login(ctx, "maria@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token2)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Register(ctx, "Maria", "maria@example.com", "correct")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "maria@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureProfileCreatesLazily(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store)
	ctx := context.Background()

	user, err := svc.EnsureProfile(ctx, "uid-42", "late@example.com", "Late Riser")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)

	// Second call returns the existing profile without recreating it.
	again, err := svc.EnsureProfile(ctx, "uid-42", "ignored@example.com", "Ignored")
	require.NoError(t, err)
	assert.Equal(t, "late@example.com", again.Email)
	assert.Len(t, store.users, 1)
}

func TestUpdateProfileIgnoresRole(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "Maria", "maria@example.com", "pass-123")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, "Maria Clara", "0917", "Manila", "")
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara", updated.Name)
	assert.Equal(t, "0917", updated.Phone)
	assert.Equal(t, models.RoleCustomer, updated.Role)
}

func TestSetRole(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "Maria", "maria@example.com", "pass-123")
	require.NoError(t, err)

	promoted, err := svc.SetRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	_, err = svc.SetRole(ctx, user.ID, "superuser")
	assert.Error(t, err)
}
