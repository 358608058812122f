package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/testutil"
)

type fixture struct {
	db        *gorm.DB
	mr        *miniredis.Miniredis
	cache     *cache.RelationCache
	users     repository.UserRepository
	messages  repository.MessageRepository
	auth      AuthService
	relations RelationshipService
	posts     MessageService
	timeline  TimelineService
	profiles  UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	relCache := cache.NewRelationCache(client, time.Minute)
	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)
	follows := repository.NewFollowRepository(db)

	auth := NewAuthService(users, bcrypt.MinCost)
	relations := NewRelationshipService(users, follows, relCache)
	return &fixture{
		db:        db,
		mr:        mr,
		cache:     relCache,
		users:     users,
		messages:  messages,
		auth:      auth,
		relations: relations,
		posts:     NewMessageService(messages),
		timeline:  NewTimelineService(relations, messages),
		profiles:  NewUserService(users, messages, follows, relations, auth, relCache),
	}
}
