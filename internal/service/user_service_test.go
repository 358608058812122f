package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/testutil"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "testuser")
	testutil.CreateUser(t, f.db, "testuser2")

	_, err := f.profiles.UpdateProfile(ctx, u.ID, "wrong", ProfileInput{Bio: "hi"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = f.profiles.UpdateProfile(ctx, u.ID, "testuser", ProfileInput{Username: "testuser2"})
	assert.ErrorIs(t, err, ErrTaken)

	_, err = f.profiles.UpdateProfile(ctx, u.ID, "testuser", ProfileInput{Email: "nope"})
	assert.True(t, IsValidation(err))

	got, err := f.profiles.UpdateProfile(ctx, u.ID, "testuser", ProfileInput{Bio: "hello", Location: "Kamchatka"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "Kamchatka", got.Location)
	assert.Equal(t, "testuser", got.Username)

	reloaded, err := f.profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", reloaded.Bio)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	require.NoError(t, f.relations.Follow(ctx, b.ID, a.ID))
	require.NoError(t, f.relations.Follow(ctx, a.ID, b.ID))
	_, err := f.posts.Post(ctx, a.ID, "hello")
	require.NoError(t, err)

	// 预热 bob 的缓存
	ids, err := f.relations.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, ids)

	require.NoError(t, f.profiles.Delete(ctx, a.ID))

	ids, err = f.relations.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = f.profiles.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, f.profiles.Delete(ctx, a.ID), ErrUserNotFound)

	msgs, err := f.timeline.Home(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "testuser")
	testutil.CreateUser(t, f.db, "other")

	users, err := f.profiles.Search(context.Background(), "test")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "testuser", users[0].Username)
}

func TestDeleteUser_InvalidatesFollowersMissingFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")
	c := testutil.CreateUser(t, f.db, "carol")

	require.NoError(t, f.relations.Follow(ctx, c.ID, a.ID))
	followers, err := f.relations.ListFollowers(ctx, a.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)

	// 直接写库，alice 的粉丝缓存里没有 bob
	require.NoError(t, f.db.Create(&model.Follow{FollowedID: a.ID, FollowerID: b.ID, CreatedAt: time.Now()}).Error)
	ids, err := f.relations.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{a.ID}, ids)

	require.NoError(t, f.profiles.Delete(ctx, a.ID))

	ids, err = f.relations.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
