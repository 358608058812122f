// Package seed 从 CSV 批量导入演示数据，并能用 gofakeit 生成这些 CSV
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/pkg/logger"
)

const (
	UsersFile    = "users.csv"
	MessagesFile = "messages.csv"
	FollowsFile  = "follows.csv"

	batchSize = 500
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Stats 各表导入行数
type Stats struct {
	Users    int
	Messages int
	Follows  int
}

// Load 在同一个事务里依次导入 users、messages、follows
func Load(ctx context.Context, db *gorm.DB, dir string) (Stats, error) {
	var st Stats

	userRows, err := readRows(filepath.Join(dir, UsersFile))
	if err != nil {
		return st, err
	}
	msgRows, err := readRows(filepath.Join(dir, MessagesFile))
	if err != nil {
		return st, err
	}
	followRows, err := readRows(filepath.Join(dir, FollowsFile))
	if err != nil {
		return st, err
	}

	users, err := parseUsers(userRows)
	if err != nil {
		return st, err
	}
	now := time.Now().UTC()
	msgs, err := parseMessages(msgRows, now)
	if err != nil {
		return st, err
	}
	follows, err := parseFollows(followRows, now)
	if err != nil {
		return st, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(users) > 0 {
			if err := tx.CreateInBatches(users, batchSize).Error; err != nil {
				return fmt.Errorf("insert users: %w", err)
			}
		}
		if len(msgs) > 0 {
			if err := tx.CreateInBatches(msgs, batchSize).Error; err != nil {
				return fmt.Errorf("insert messages: %w", err)
			}
		}
		if len(follows) > 0 {
			if err := tx.CreateInBatches(follows, batchSize).Error; err != nil {
				return fmt.Errorf("insert follows: %w", err)
			}
		}
		if tx.Dialector.Name() == "postgres" {
			return resetSequences(tx)
		}
		return nil
	})
	if err != nil {
		return st, err
	}

	st = Stats{Users: len(users), Messages: len(msgs), Follows: len(follows)}
	logger.Info("seed loaded",
		zap.String("dir", dir),
		zap.Int("users", st.Users),
		zap.Int("messages", st.Messages),
		zap.Int("follows", st.Follows),
	)
	return st, nil
}

// resetSequences 显式写入 id 之后，序列需要追上当前最大值
func resetSequences(tx *gorm.DB) error {
	for _, table := range []string{"users", "messages"} {
		sql := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			table, table)
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}

// readRows 按表头把每行读成 map；文件不存在视为空表
func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("seed file missing", zap.String("path", path))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseUsers(rows []map[string]string) ([]*model.User, error) {
	users := make([]*model.User, 0, len(rows))
	withID := 0
	for i, row := range rows {
		id, err := optionalID(row["id"])
		if err != nil {
			return nil, fmt.Errorf("users row %d: %w", i+1, err)
		}
		pw, err := hashIfPlain(row["password"])
		if err != nil {
			return nil, fmt.Errorf("users row %d: %w", i+1, err)
		}
		u := &model.User{
			ID:             id,
			Email:          strings.ToLower(strings.TrimSpace(row["email"])),
			Username:       strings.TrimSpace(row["username"]),
			ImageURL:       row["image_url"],
			HeaderImageURL: row["header_image_url"],
			Bio:            row["bio"],
			Location:       row["location"],
			Password:       pw,
		}
		if u.Email == "" || u.Username == "" || u.Password == "" {
			return nil, fmt.Errorf("users row %d: email, username and password are required", i+1)
		}
		u.ApplyDefaults()
		if id != 0 {
			withID++
		}
		users = append(users, u)
	}
	if mixedIDs(withID, len(users)) {
		return nil, errors.New("users: id must be set on every row or on none")
	}
	return users, nil
}

func parseMessages(rows []map[string]string, now time.Time) ([]*model.Message, error) {
	msgs := make([]*model.Message, 0, len(rows))
	withID := 0
	for i, row := range rows {
		id, err := optionalID(row["id"])
		if err != nil {
			return nil, fmt.Errorf("messages row %d: %w", i+1, err)
		}
		userID, err := requiredID(row["user_id"])
		if err != nil {
			return nil, fmt.Errorf("messages row %d: user_id: %w", i+1, err)
		}
		ts, err := parseTime(row["timestamp"], now)
		if err != nil {
			return nil, fmt.Errorf("messages row %d: %w", i+1, err)
		}
		if id != 0 {
			withID++
		}
		msgs = append(msgs, &model.Message{ID: id, Text: row["text"], Timestamp: ts, UserID: userID})
	}
	if mixedIDs(withID, len(msgs)) {
		return nil, errors.New("messages: id must be set on every row or on none")
	}
	return msgs, nil
}

func parseFollows(rows []map[string]string, now time.Time) ([]*model.Follow, error) {
	follows := make([]*model.Follow, 0, len(rows))
	for i, row := range rows {
		followed, err := requiredID(row["user_being_followed_id"])
		if err != nil {
			return nil, fmt.Errorf("follows row %d: user_being_followed_id: %w", i+1, err)
		}
		follower, err := requiredID(row["user_following_id"])
		if err != nil {
			return nil, fmt.Errorf("follows row %d: user_following_id: %w", i+1, err)
		}
		follows = append(follows, &model.Follow{FollowedID: followed, FollowerID: follower, CreatedAt: now})
	}
	return follows, nil
}

// mixedIDs 一批里部分行带 id、部分不带时无法同批插入
func mixedIDs(withID, total int) bool { return withID != 0 && withID != total }

func optionalID(s string) (uint, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return requiredID(s)
}

func requiredID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

func parseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// hashIfPlain 已是 bcrypt 串的密码原样保留
func hashIfPlain(pw string) (string, error) {
	if pw == "" {
		return "", nil
	}
	if _, err := bcrypt.Cost([]byte(pw)); err == nil {
		return pw, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
