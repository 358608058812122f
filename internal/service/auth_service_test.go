package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/warbler/internal/model"
)

func TestSignup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.Signup(ctx, SignupInput{
		Username: "newest",
		Email:    "testemail@test.com",
		Password: "livelaughlove",
		ImageURL: "https://example.com/bear.jpg",
	})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "livelaughlove", u.Password)
	assert.Equal(t, "newest", u.Username)
	assert.Equal(t, "testemail@test.com", u.Email)
	assert.Equal(t, "https://example.com/bear.jpg", u.ImageURL)
	assert.Equal(t, model.DefaultHeaderImageURL, u.HeaderImageURL)
}

func TestSignup_DefaultImage(t *testing.T) {
	f := newFixture(t)

	u, err := f.auth.Signup(context.Background(), SignupInput{Username: "u", Email: "U@Test.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultImageURL, u.ImageURL)
	assert.Equal(t, "u@test.com", u.Email)
}

func TestSignup_MissingFieldsCreateNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"only username", SignupInput{Username: "nookay"}, "email"},
		{"missing username", SignupInput{Email: "a@b.com", Password: "secret1"}, "username"},
		{"bad email", SignupInput{Username: "x", Email: "not-an-email", Password: "secret1"}, "email"},
		{"short password", SignupInput{Username: "x", Email: "a@b.com", Password: "123"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Signup(ctx, tc.in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSignup_Taken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Signup(ctx, SignupInput{Username: "testuser", Email: "test@test.com", Password: "testuser"})
	require.NoError(t, err)

	_, err = f.auth.Signup(ctx, SignupInput{Username: "testuser", Email: "other@test.com", Password: "testuser"})
	assert.ErrorIs(t, err, ErrTaken)

	_, err = f.auth.Signup(ctx, SignupInput{Username: "other", Email: "TEST@test.com", Password: "testuser"})
	assert.ErrorIs(t, err, ErrTaken)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u3, err := f.auth.Signup(ctx, SignupInput{Username: "testuser3", Email: "test3@test.com", Password: "HASHED_PASSWORD3", ImageURL: "none"})
	require.NoError(t, err)

	got, ok, err := f.auth.Authenticate(ctx, "testuser3", "HASHED_PASSWORD3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u3.ID, got.ID)

	got, ok, err = f.auth.Authenticate(ctx, "testuser3", "no match")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	got, ok, err = f.auth.Authenticate(ctx, "nousername", "HASHED_PASSWORD3")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	_, _, err = f.auth.Authenticate(ctx, "", "x")
	assert.True(t, IsValidation(err))
}

func TestSignup_PasswordByteLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 30 个汉字只有 30 个字符，但有 90 字节
	_, err := f.auth.Signup(ctx, SignupInput{Username: "cjk", Email: "cjk@test.com", Password: strings.Repeat("密", 30)})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "password", ve.Field)

	var n int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)

	// 24 个汉字正好 72 字节
	u, err := f.auth.Signup(ctx, SignupInput{Username: "cjk", Email: "cjk@test.com", Password: strings.Repeat("密", 24)})
	require.NoError(t, err)

	got, ok, err := f.auth.Authenticate(ctx, "cjk", strings.Repeat("密", 24))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)
}
