package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

type userMap map[string]*internal.User

func (m userMap) CreateUser(context.Context, *internal.User) error { return nil }

func (m userMap) GetUserByEmail(_ context.Context, email string) (*internal.User, error) {
	for _, u := range m {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m userMap) GetUserByID(_ context.Context, id string) (*internal.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func TestIssueAndAuthenticate(t *testing.T) {
	user := &internal.User{ID: "u1", Email: "dana@example.com", Name: "Dana"}
	p := NewJWTProvider("secret", "stackhabit", userMap{"u1": user}, internal.NopLogger{})

	token, err := p.IssueToken(user)
	require.NoError(t, err)

	got, err := p.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "dana@example.com", got.Email)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	user := &internal.User{ID: "u1", Email: "dana@example.com"}
	p := NewJWTProvider("secret", "stackhabit", userMap{"u1": user}, internal.NopLogger{})

	issued := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return issued }
	token, err := p.IssueToken(user)
	require.NoError(t, err)

	p.now = func() time.Time { return issued.Add(tokenTTL + time.Minute) }
	_, err = p.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, internal.KindUnauthorized, internal.KindOf(err))
}

func TestAuthenticate_WrongSecretOrIssuer(t *testing.T) {
	user := &internal.User{ID: "u1", Email: "dana@example.com"}
	users := userMap{"u1": user}

	issuer := NewJWTProvider("secret-a", "stackhabit", users, internal.NopLogger{})
	token, err := issuer.IssueToken(user)
	require.NoError(t, err)

	otherSecret := NewJWTProvider("secret-b", "stackhabit", users, internal.NopLogger{})
	_, err = otherSecret.Authenticate(context.Background(), token)
	assert.Equal(t, internal.KindUnauthorized, internal.KindOf(err))

	otherIssuer := NewJWTProvider("secret-a", "someone-else", users, internal.NopLogger{})
	_, err = otherIssuer.Authenticate(context.Background(), token)
	assert.Equal(t, internal.KindUnauthorized, internal.KindOf(err))
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	user := &internal.User{ID: "gone", Email: "gone@example.com"}
	p := NewJWTProvider("secret", "stackhabit", userMap{}, internal.NopLogger{})

	token, err := p.IssueToken(user)
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, internal.KindUnauthorized, internal.KindOf(err))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("sekret1")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret1", hash)
	assert.True(t, CheckPassword(hash, "sekret1"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
