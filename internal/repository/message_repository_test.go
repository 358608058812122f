package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/testutil"
)

func TestMessageRepository_DeleteOwned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "testuser")
	other := testutil.CreateUser(t, db, "testuser2")

	m := &model.Message{Text: "testing text", Timestamp: time.Now(), UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, m))

	deleted, err := repo.DeleteOwned(ctx, m.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "testing text", got.Text)
	require.NotNil(t, got.User)
	assert.Equal(t, "testuser", got.User.Username)

	deleted, err = repo.DeleteOwned(ctx, m.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, m.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetByID(ctx, m.ID)
	assert.True(t, IsNotFound(err))
}

func TestMessageRepository_ListByUsersNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &model.Message{Text: "a1", Timestamp: base, UserID: a.ID}))
	require.NoError(t, repo.Create(ctx, &model.Message{Text: "b1", Timestamp: base.Add(time.Minute), UserID: b.ID}))
	require.NoError(t, repo.Create(ctx, &model.Message{Text: "c1", Timestamp: base.Add(2 * time.Minute), UserID: c.ID}))
	require.NoError(t, repo.Create(ctx, &model.Message{Text: "a2", Timestamp: base.Add(3 * time.Minute), UserID: a.ID}))

	msgs, err := repo.ListByUsers(ctx, []uint{a.ID, b.ID}, 0)
	require.NoError(t, err)
	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}
	assert.Equal(t, []string{"a2", "b1", "a1"}, texts)

	msgs, err = repo.ListByUser(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "a2", msgs[0].Text)

	msgs, err = repo.ListByUsers(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
