package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/seed"
	"github.com/d60-Lab/warbler/pkg/logger"
)

func main() {
	var opts seed.GenerateOptions
	dir := flag.String("dir", "generator", "output directory")
	flag.IntVar(&opts.Users, "users", 300, "number of users")
	flag.IntVar(&opts.MessagesPerUser, "messages", 3, "messages per user")
	flag.IntVar(&opts.FollowsPerUser, "follows", 10, "accounts each user follows")
	flag.StringVar(&opts.Password, "password", "password", "plain password shared by every generated user")
	flag.Int64Var(&opts.Seed, "seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	if err := logger.Init("info", true); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := seed.Generate(*dir, opts)
	if err != nil {
		logger.Fatal("generate", zap.Error(err))
	}
	logger.Info("csv written",
		zap.String("dir", *dir),
		zap.Int("users", st.Users),
		zap.Int("messages", st.Messages),
		zap.Int("follows", st.Follows),
	)
}
