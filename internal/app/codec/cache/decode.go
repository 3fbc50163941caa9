package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"hashids.local/internal/platform/metrics"
)

// invalidSentinel 负缓存的哨兵值，和合法值（空格分隔的数字）不会冲突
const invalidSentinel = "__nil__"

const keyPrefix = "hd:"

// Entry 一条解码结果。Invalid 为 true 表示该 hash 之前解码失败过。
type Entry struct {
	Numbers []uint64
	Invalid bool
}

// DecodeCache 两级缓存：L1 ristretto，L2 Redis。client 为 nil 时只用本地缓存。
type DecodeCache struct {
	client   *redis.Client
	local    *LocalCache
	ttl      time.Duration
	emptyTTL time.Duration
}

func NewDecodeCache(client *redis.Client, local *LocalCache, ttl time.Duration) *DecodeCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DecodeCache{
		client:   client,
		local:    local,
		ttl:      ttl,
		emptyTTL: 30 * time.Second,
	}
}

// Key 同一个 hash 在不同参数下含义不同，key 里带上指纹
func Key(profile, fingerprint, hash string) string {
	var b strings.Builder
	b.Grow(len(keyPrefix) + len(profile) + len(fingerprint) + len(hash) + 2)
	b.WriteString(keyPrefix)
	b.WriteString(profile)
	b.WriteByte(':')
	b.WriteString(fingerprint)
	b.WriteByte(':')
	b.WriteString(hash)
	return b.String()
}

// Get 第二个返回值表示是否命中
func (c *DecodeCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	if c.local != nil {
		if e, ok := c.local.Get(key); ok {
			metrics.CacheOperations.WithLabelValues("local", hitLabel(e)).Inc()
			return e, true, nil
		}
		metrics.CacheOperations.WithLabelValues("local", "miss").Inc()
	}
	if c.client == nil {
		return Entry{}, false, nil
	}

	res, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("redis", "miss").Inc()
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	e, err := parseValue(res)
	if err != nil {
		// 脏数据当作未命中，顺手删掉
		slog.Warn("decode cache: bad value", "key", key, "err", err)
		_ = c.client.Del(ctx, key).Err()
		return Entry{}, false, nil
	}
	metrics.CacheOperations.WithLabelValues("redis", hitLabel(e)).Inc()

	if c.local != nil {
		if e.Invalid {
			c.local.SetInvalid(key)
		} else {
			c.local.Set(key, e.Numbers)
		}
	}
	return e, true, nil
}

func (c *DecodeCache) Set(ctx context.Context, key string, numbers []uint64) error {
	if c.local != nil {
		c.local.Set(key, numbers)
	}
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, formatValue(numbers), c.ttl).Err()
}

// SetInvalid 负缓存，挡住反复提交同一个坏 hash
func (c *DecodeCache) SetInvalid(ctx context.Context, key string) error {
	if c.local != nil {
		c.local.SetInvalid(key)
	}
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, invalidSentinel, c.emptyTTL).Err()
}

func (c *DecodeCache) Delete(ctx context.Context, key string) error {
	if c.local != nil {
		c.local.Del(key)
	}
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

func (c *DecodeCache) Close() {
	if c.local != nil {
		c.local.Close()
		slog.Info("本地解码缓存已关闭")
	}
}

func hitLabel(e Entry) string {
	if e.Invalid {
		return "negative"
	}
	return "hit"
}

func formatValue(numbers []uint64) string {
	buf := make([]byte, 0, len(numbers)*8)
	for i, n := range numbers {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendUint(buf, n, 10)
	}
	return string(buf)
}

func parseValue(s string) (Entry, error) {
	if s == invalidSentinel {
		return Entry{Invalid: true}, nil
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Entry{}, errors.New("empty cache value")
	}
	numbers := make([]uint64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return Entry{}, err
		}
		numbers[i] = n
	}
	return Entry{Numbers: numbers}, nil
}
