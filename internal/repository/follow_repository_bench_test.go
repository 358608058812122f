package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/testutil"
)

func seedBenchUsers(b *testing.B, db *gorm.DB, n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("u%04d", i), Email: fmt.Sprintf("u%04d@example.com", i), Password: "p"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}
	return users
}

func BenchmarkFollowWrite(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()
	users := seedBenchUsers(b, db, 1000)
	rnd := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rnd.Intn(len(users))].ID
		to := users[rnd.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
	}
}

func BenchmarkQueryFollowersAndFollowing(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// u0 被其余所有人关注，同时也关注所有人
	const N = 2000
	users := seedBenchUsers(b, db, N+1)
	u0 := users[0].ID
	for _, u := range users[1:] {
		_ = followRepo.Create(ctx, u.ID, u0)
		_ = followRepo.Create(ctx, u0, u.ID)
	}

	b.ResetTimer()
	b.Run("ListFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowers(ctx, u0, 0, 50)
		}
	})

	b.Run("ListFollowing", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowing(ctx, u0, 0, 50)
		}
	})

	b.Run("Exists", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.Exists(ctx, u0, users[1+i%N].ID)
		}
	})
}
