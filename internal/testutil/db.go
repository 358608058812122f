package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/pkg/database"
)

// NewDB 返回迁移完成的内存 sqlite；单连接保证整个测试看到同一个库
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(tb, err)
	require.NoError(tb, database.Migrate(db))
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser 直接落库一个用户，密码与用户名相同
func CreateUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
	require.NoError(tb, err)
	u := &model.User{
		Username: username,
		Email:    fmt.Sprintf("%s@test.com", username),
		Password: string(hash),
	}
	u.ApplyDefaults()
	require.NoError(tb, db.WithContext(context.Background()).Create(u).Error)
	return u
}
