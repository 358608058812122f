package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/testutil"
)

func TestLoad(t *testing.T) {
	db := testutil.NewDB(t)

	st, err := Load(context.Background(), db, "testdata")
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 3, Messages: 3, Follows: 3}, st)

	var alice model.User
	require.NoError(t, db.First(&alice, 1).Error)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, model.DefaultImageURL, alice.ImageURL)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(alice.Password), []byte("alicepw")))

	var bob model.User
	require.NoError(t, db.First(&bob, 2).Error)
	assert.Equal(t, "$2a$04$C6UzMDM.H6dfI/f/IKcEeO5i6Pnb8ly3hzIL0Nvkdd0Wk7YnSgC7C", bob.Password)
	assert.Equal(t, "https://example.com/bob.png", bob.ImageURL)

	var msgs []model.Message
	require.NoError(t, db.Order("id").Find(&msgs).Error)
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello, world", msgs[1].Text)
	assert.Equal(t, 2017, msgs[0].Timestamp.Year())
	assert.False(t, msgs[2].Timestamp.IsZero())

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Where("user_following_id = ?", 1).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	// 显式 id 之后自增仍可用
	extra := &model.User{Username: "dave", Email: "dave@test.com", Password: "x"}
	require.NoError(t, db.Create(extra).Error)
	assert.EqualValues(t, 4, extra.ID)
}

func TestLoad_RollsBackOnBadFollow(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	copyFile(t, "testdata/users.csv", filepath.Join(dir, UsersFile))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FollowsFile),
		[]byte("user_being_followed_id,user_following_id\n1,99\n"), 0o644))

	_, err := Load(context.Background(), db, dir)
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLoad_MissingFilesAreEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	st, err := Load(context.Background(), db, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2017-01-04T12:00:00Z", "2017-01-04 12:00:00", "2017-01-04 12:00:00.123456", "2017-01-04"} {
		ts, err := parseTime(s, time.Time{})
		require.NoError(t, err, s)
		assert.Equal(t, 4, ts.Day())
	}
	_, err := parseTime("yesterday", time.Time{})
	assert.Error(t, err)
}

func TestParseUsers_MixedIDs(t *testing.T) {
	_, err := parseUsers([]map[string]string{
		{"id": "1", "email": "a@x.com", "username": "a", "password": "pw"},
		{"email": "b@x.com", "username": "b", "password": "pw"},
	})
	assert.Error(t, err)
}

func TestGenerateThenLoad(t *testing.T) {
	dir := t.TempDir()
	st, err := Generate(dir, GenerateOptions{Users: 20, MessagesPerUser: 3, FollowsPerUser: 5, BcryptCost: bcrypt.MinCost, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 20, Messages: 60, Follows: 100}, st)

	db := testutil.NewDB(t)
	loaded, err := Load(context.Background(), db, dir)
	require.NoError(t, err)
	assert.Equal(t, st, loaded)

	var self int64
	require.NoError(t, db.Model(&model.Follow{}).Where("user_being_followed_id = user_following_id").Count(&self).Error)
	assert.Zero(t, self)

	var u model.User
	require.NoError(t, db.First(&u).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password")))

	var long int64
	require.NoError(t, db.Model(&model.Message{}).Where("LENGTH(text) > ?", model.MaxMessageLength).Count(&long).Error)
	assert.Zero(t, long)
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	b, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, b, 0o644))
}
