package seed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/warbler/internal/model"
)

// GenerateOptions 控制生成规模
type GenerateOptions struct {
	Users           int
	MessagesPerUser int
	FollowsPerUser  int
	// Password 所有生成用户共用的明文密码
	Password   string
	BcryptCost int
	Seed       int64
}

func (o *GenerateOptions) defaults() {
	if o.Users <= 0 {
		o.Users = 300
	}
	if o.MessagesPerUser < 0 {
		o.MessagesPerUser = 0
	}
	if o.FollowsPerUser < 0 {
		o.FollowsPerUser = 0
	}
	if o.FollowsPerUser >= o.Users {
		o.FollowsPerUser = o.Users - 1
	}
	if o.Password == "" {
		o.Password = "password"
	}
	if o.BcryptCost < bcrypt.MinCost || o.BcryptCost > bcrypt.MaxCost {
		o.BcryptCost = bcrypt.DefaultCost
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// Generate 在 dir 下写出 users.csv、messages.csv、follows.csv，格式与 Load 读取的一致
func Generate(dir string, opts GenerateOptions) (Stats, error) {
	opts.defaults()
	var st Stats
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return st, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.BcryptCost)
	if err != nil {
		return st, err
	}
	faker := gofakeit.New(opts.Seed)

	users := [][]string{{"id", "email", "username", "image_url", "header_image_url", "bio", "location", "password"}}
	seenName := make(map[string]bool, opts.Users)
	seenEmail := make(map[string]bool, opts.Users)
	for i := 1; i <= opts.Users; i++ {
		name := unique(seenName, faker.Username(), i)
		email := unique(seenEmail, faker.Email(), i)
		users = append(users, []string{
			strconv.Itoa(i),
			email,
			name,
			fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID()),
			fmt.Sprintf("https://picsum.photos/seed/%s/1200/400", faker.UUID()),
			faker.Sentence(10),
			faker.City(),
			string(hash),
		})
	}

	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)
	messages := [][]string{{"text", "timestamp", "user_id"}}
	for uid := 1; uid <= opts.Users; uid++ {
		for j := 0; j < opts.MessagesPerUser; j++ {
			messages = append(messages, []string{
				truncate(faker.Sentence(faker.Number(3, 20)), model.MaxMessageLength),
				faker.DateRange(start, end).UTC().Format(time.RFC3339),
				strconv.Itoa(uid),
			})
		}
	}

	follows := [][]string{{"user_being_followed_id", "user_following_id"}}
	for follower := 1; follower <= opts.Users; follower++ {
		picked := make(map[int]bool, opts.FollowsPerUser)
		for len(picked) < opts.FollowsPerUser {
			followed := faker.Number(1, opts.Users)
			if followed == follower || picked[followed] {
				continue
			}
			picked[followed] = true
			follows = append(follows, []string{strconv.Itoa(followed), strconv.Itoa(follower)})
		}
	}

	for name, rows := range map[string][][]string{
		UsersFile:    users,
		MessagesFile: messages,
		FollowsFile:  follows,
	} {
		if err := writeCSV(filepath.Join(dir, name), rows); err != nil {
			return st, err
		}
	}
	return Stats{Users: len(users) - 1, Messages: len(messages) - 1, Follows: len(follows) - 1}, nil
}

func unique(seen map[string]bool, v string, i int) string {
	if seen[v] {
		v = fmt.Sprintf("%s%d", v, i)
	}
	seen[v] = true
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
