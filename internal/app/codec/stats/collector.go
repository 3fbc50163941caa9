package stats

import (
	"sync"
	"time"
)

// 操作类型，同时用作指标的 op label
const (
	OpEncode    = "encode"
	OpDecode    = "decode"
	OpEncodeHex = "encode_hex"
	OpDecodeHex = "decode_hex"
)

// UsageEvent 一次成功的编解码
type UsageEvent struct {
	Profile string    `json:"profile"`
	Op      string    `json:"op"`
	Count   int       `json:"count"` // 本次处理的数字个数
	IP      string    `json:"ip"`
	At      time.Time `json:"at"`
}

// Collector 收集器接口，Channel 和 Kafka 两种实现
type Collector interface {
	Collect(event UsageEvent)
	Close()
}

// ChannelCollector 基于 channel 的收集器，满了直接丢弃
type ChannelCollector struct {
	mu     sync.RWMutex
	ch     chan UsageEvent
	closed bool
}

func NewChannelCollector(bufferSize int) *ChannelCollector {
	return &ChannelCollector{
		ch: make(chan UsageEvent, bufferSize),
	}
}

func (c *ChannelCollector) Collect(event UsageEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- event:
	default:
	}
}

func (c *ChannelCollector) Events() <-chan UsageEvent {
	return c.ch
}

// Close 可以重复调用
func (c *ChannelCollector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
