package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// 压测：N 个用户并发关注同一个大 V，然后测粉丝列表与首页时间线的读延迟
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	N := envInt("N", 10000)
	CONC := envInt("CONC", 8)
	PAGE := envInt("PAGE", 50)
	READS := envInt("READS", 200)

	// 本地压测，直接清表
	if err := database.Reset(db); err != nil {
		panic(err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = must(cache.NewRedisClient(ctx, cfg.Redis))
		defer rdb.Close()
	}
	relCache := cache.NewRelationCache(rdb, cfg.Redis.TTL)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	relSvc := service.NewRelationshipService(userRepo, followRepo, relCache)
	timeline := service.NewTimelineService(relSvc, messageRepo)

	celeb := model.User{Username: "celeb", Email: "celeb@example.com", Password: "p"}
	celeb.ApplyDefaults()
	if err := db.Create(&celeb).Error; err != nil {
		panic(err)
	}
	users := make([]model.User, N)
	for i := range users {
		id := uuid.NewString()[:12]
		users[i] = model.User{Username: "u" + id, Email: id + "@example.com", Password: "p"}
		users[i].ApplyDefaults()
	}
	if err := db.CreateInBatches(&users, 1000).Error; err != nil {
		panic(err)
	}
	for i := 0; i < 20; i++ {
		_ = messageRepo.Create(ctx, &model.Message{Text: fmt.Sprintf("post %d", i), UserID: celeb.ID, Timestamp: time.Now()})
	}

	// 并发关注
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	var mu sync.Mutex
	followRecs := make([]time.Duration, 0, N)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]time.Duration, 0, N/CONC+1)
			for i := range feed {
				st := time.Now()
				_ = relSvc.Follow(ctx, users[i].ID, celeb.ID)
				local = append(local, time.Since(st))
			}
			mu.Lock()
			followRecs = append(followRecs, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	followDur := time.Since(t0)

	measure := func(fn func()) []time.Duration {
		recs := make([]time.Duration, 0, READS)
		for i := 0; i < READS; i++ {
			st := time.Now()
			fn()
			recs = append(recs, time.Since(st))
		}
		return recs
	}

	fansRecs := measure(func() { _, _ = relSvc.ListFollowers(ctx, celeb.ID, 1, PAGE) })
	homeRecs := measure(func() { _, _ = timeline.Home(ctx, users[0].ID) })
	checkRecs := measure(func() { _, _ = relSvc.IsFollowing(ctx, users[0].ID, celeb.ID) })

	counts := must(relSvc.Counts(ctx, celeb.ID))

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, READS=%d, redis=%v\n", N, CONC, PAGE, READS, rdb != nil)
	fmt.Printf("Follow total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(N), pct(followRecs, 0.50), pct(followRecs, 0.95), pct(followRecs, 0.99))
	fmt.Printf("Followers page(%d): p50=%v p95=%v p99=%v\n", PAGE, pct(fansRecs, 0.50), pct(fansRecs, 0.95), pct(fansRecs, 0.99))
	fmt.Printf("Home timeline: p50=%v p95=%v p99=%v\n", pct(homeRecs, 0.50), pct(homeRecs, 0.95), pct(homeRecs, 0.99))
	fmt.Printf("IsFollowing: p50=%v p95=%v p99=%v\n", pct(checkRecs, 0.50), pct(checkRecs, 0.95), pct(checkRecs, 0.99))
	fmt.Printf("Followers counted: %d, cache loads: %d\n", counts.Followers, relCache.Loads())
}
