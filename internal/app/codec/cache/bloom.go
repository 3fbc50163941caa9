package cache

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// IssuedFilter 记录本实例签发过的 hash，strict 解码时用来拒绝没签发过的
type IssuedFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewIssuedFilter expectedItems 预期元素数，falsePositiveRate 误判率（建议 0.01）
func NewIssuedFilter(expectedItems uint, falsePositiveRate float64) *IssuedFilter {
	return &IssuedFilter{
		filter: bloom.NewWithEstimates(expectedItems, falsePositiveRate),
	}
}

func (b *IssuedFilter) Add(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter.AddString(key)
}

// MightExist false 表示一定没签发过，true 表示可能签发过
func (b *IssuedFilter) MightExist(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter.TestString(key)
}

// Count 估算的元素数量
func (b *IssuedFilter) Count() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter.ApproximatedSize()
}
