package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strp(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()
	u, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	got, err := s.UpdateProfile(ctx, u.UserID, ProfileUpdate{Fullname: strp("  asha   RAO verma "), Phone: strp(" 98765 43210 ")})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao Verma", got.Fullname)
	assert.Equal(t, "98765 43210", got.Phone)

	got, err = s.UpdateProfile(ctx, u.UserID, ProfileUpdate{Password: strp("n3w!password")})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("n3w!password")))
}

func TestUpdateProfile_Errors(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()
	u, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)
	other := validRegistration()
	other.Email = "other@example.com"
	_, err = s.Register(ctx, other)
	require.NoError(t, err)

	_, err = s.UpdateProfile(ctx, u.UserID, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNoUpdateFields)
	_, err = s.UpdateProfile(ctx, u.UserID, ProfileUpdate{Email: strp("OTHER@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = s.UpdateProfile(ctx, u.UserID, ProfileUpdate{Fullname: strp("R2-D2")})
	assert.ErrorIs(t, err, ErrInvalidFullname)
	_, err = s.UpdateProfile(ctx, u.UserID, ProfileUpdate{Password: strp("weak")})
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = s.UpdateProfile(ctx, u.UserID, ProfileUpdate{Phone: strp("12345")})
	assert.ErrorIs(t, err, ErrInvalidPhone)
	_, err = s.UpdateProfile(ctx, uuid.New(), ProfileUpdate{Phone: strp("9876543210")})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
