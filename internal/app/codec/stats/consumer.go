package stats

import (
	"context"
	"log/slog"
	"time"
)

// Consumer 从 ChannelCollector 读事件，攒批写库
type Consumer struct {
	db        Writer
	collector *ChannelCollector
	batchSize int
	interval  time.Duration
}

func NewConsumer(db Writer, collector *ChannelCollector) *Consumer {
	return &Consumer{
		db:        db,
		collector: collector,
		batchSize: 200,
		interval:  time.Second,
	}
}

// Run 阻塞，ctx 结束或 collector 关闭时写完剩余事件再返回
func (c *Consumer) Run(ctx context.Context) {
	batch := make([]UsageEvent, 0, c.batchSize)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.flush(batch)
			return
		case event, ok := <-c.collector.Events():
			if !ok {
				c.flush(batch)
				return
			}
			batch = append(batch, event)
			if len(batch) >= c.batchSize {
				c.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				c.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (c *Consumer) flush(batch []UsageEvent) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := writeBatch(ctx, c.db, batch)
	if err != nil {
		slog.Error("usage stats: write failed", "err", err, "events", len(batch))
		return
	}
	slog.Debug("usage stats: flushed", "count", n)
}
