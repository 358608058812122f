package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/seed"
	"github.com/d60-Lab/warbler/pkg/database"
	"github.com/d60-Lab/warbler/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	dir := flag.String("dir", cfg.Seed.Dir, "directory holding users.csv, messages.csv and follows.csv")
	reset := flag.Bool("reset", false, "drop and recreate tables before loading")
	flag.Parse()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if *reset {
		if err := database.Reset(db); err != nil {
			logger.Fatal("reset tables", zap.Error(err))
		}
		logger.Info("tables recreated")
	}

	if _, err := seed.Load(context.Background(), db, *dir); err != nil {
		logger.Fatal("seed", zap.String("dir", *dir), zap.Error(err))
	}
}
