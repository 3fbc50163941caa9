package cache

import (
	"slices"
	"time"

	"github.com/dgraph-io/ristretto"
)

// LocalCache 基于 ristretto 的进程内解码缓存
type LocalCache struct {
	cache    *ristretto.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

// NewLocalCache maxItems 是最多缓存的 hash 数，cost 按数字个数计
func NewLocalCache(maxItems int64, ttl time.Duration) (*LocalCache, error) {
	if maxItems <= 0 {
		maxItems = 10_000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	// cost 按数字个数计，不算 ristretto 内部开销
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxItems * 10,
		MaxCost:            maxItems * 4,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &LocalCache{
		cache:    cache,
		ttl:      ttl,
		emptyTTL: 10 * time.Second,
	}, nil
}

func (l *LocalCache) Get(key string) (Entry, bool) {
	v, ok := l.cache.Get(key)
	if !ok {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	if !ok {
		return Entry{}, false
	}
	e.Numbers = slices.Clone(e.Numbers)
	return e, true
}

// Set 存的是 numbers 的副本，调用方之后可以复用自己的切片
func (l *LocalCache) Set(key string, numbers []uint64) {
	l.cache.SetWithTTL(key, Entry{Numbers: slices.Clone(numbers)}, int64(len(numbers)), l.ttl)
}

func (l *LocalCache) SetInvalid(key string) {
	l.cache.SetWithTTL(key, Entry{Invalid: true}, 1, l.emptyTTL)
}

func (l *LocalCache) Del(key string) {
	l.cache.Del(key)
}

// Wait 等缓冲区里的写入生效，测试里用
func (l *LocalCache) Wait() {
	l.cache.Wait()
}

func (l *LocalCache) Close() {
	l.cache.Close()
}
