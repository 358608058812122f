package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/pkg/logger"
)

// Kind 标识缓存的关系方向
type Kind string

const (
	Following Kind = "following"
	Followers Kind = "followers"
)

// genTTLFactor 代数键比索引多活一段时间，回填窗口内不会过期
const genTTLFactor = 4

var errStaleFill = errors.New("relation cache: generation changed during load")

// Loader 缓存未命中时从主存储加载 id 列表
type Loader func(ctx context.Context) ([]uint, error)

// RelationCache 以 Redis List 保存用户的关注/粉丝 id 索引
// client 为 nil 时所有读取直接回源
type RelationCache struct {
	client *redis.Client
	ttl    time.Duration

	loads atomic.Int64
}

func NewRelationCache(client *redis.Client, ttl time.Duration) *RelationCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RelationCache{client: client, ttl: ttl}
}

func key(kind Kind, userID uint) string {
	return fmt.Sprintf("warbler:%s:index:%d", kind, userID)
}

func genKey(kind Kind, userID uint) string {
	return fmt.Sprintf("warbler:%s:gen:%d", kind, userID)
}

// Enabled 是否连接了 Redis
func (c *RelationCache) Enabled() bool { return c != nil && c.client != nil }

// IDs 读取 id 索引，未命中时调用 load 并回填
// 空列表不回填，Redis 故障时降级为回源
// 回填前比较代数：load 期间发生过 Invalidate 则放弃回填
func (c *RelationCache) IDs(ctx context.Context, kind Kind, userID uint, load Loader) ([]uint, error) {
	if !c.Enabled() {
		return c.load(ctx, load)
	}

	k := key(kind, userID)
	vals, err := c.client.LRange(ctx, k, 0, -1).Result()
	if err != nil {
		logger.Warn("relation cache read failed", zap.String("key", k), zap.Error(err))
		return c.load(ctx, load)
	}
	if len(vals) > 0 {
		ids, perr := parseIDs(vals)
		if perr == nil {
			return ids, nil
		}
		logger.Warn("relation cache corrupt, reloading", zap.String("key", k), zap.Error(perr))
	}

	gk := genKey(kind, userID)
	gen, err := c.client.Get(ctx, gk).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn("relation cache read failed", zap.String("key", gk), zap.Error(err))
		return c.load(ctx, load)
	}

	ids, err := c.load(ctx, load)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		c.fill(ctx, k, gk, gen, ids)
	}
	return ids, nil
}

// fill 只在代数未变时写入；WATCH 覆盖比较与写入之间的窗口
func (c *RelationCache) fill(ctx context.Context, k, gk, gen string, ids []uint) {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, k)
			pipe.RPush(ctx, k, interfaceSlice(ids)...)
			pipe.Expire(ctx, k, c.ttl)
			return nil
		})
		return err
	}, gk)
	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		logger.Debug("relation cache fill skipped", zap.String("key", k))
	default:
		logger.Warn("relation cache fill failed", zap.String("key", k), zap.Error(err))
	}
}

// Invalidate 删除若干用户在某方向上的索引，并推进代数使进行中的回填作废
func (c *RelationCache) Invalidate(ctx context.Context, kind Kind, userIDs ...uint) {
	if !c.Enabled() || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	pipe := c.client.TxPipeline()
	for i, id := range userIDs {
		keys[i] = key(kind, id)
		gk := genKey(kind, id)
		pipe.Incr(ctx, gk)
		pipe.Expire(ctx, gk, genTTLFactor*c.ttl)
	}
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("relation cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Loads 返回回源次数
func (c *RelationCache) Loads() int64 {
	if c == nil {
		return 0
	}
	return c.loads.Load()
}

func (c *RelationCache) load(ctx context.Context, load Loader) ([]uint, error) {
	if c != nil {
		c.loads.Add(1)
	}
	return load(ctx)
}

func parseIDs(vals []string) ([]uint, error) {
	ids := make([]uint, len(vals))
	for i, v := range vals {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids[i] = uint(n)
	}
	return ids, nil
}

func interfaceSlice(ids []uint) []interface{} {
	result := make([]interface{}, len(ids))
	for i, id := range ids {
		result[i] = strconv.FormatUint(uint64(id), 10)
	}
	return result
}
