package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageReader 是 *kafka.Reader 用到的部分
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer 攒批写库，写库成功后才提交 offset
type KafkaConsumer struct {
	reader    messageReader
	db        Writer
	batchSize int
	interval  time.Duration
}

func NewKafkaConsumer(brokers []string, topic string, db Writer) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  "codec-usage-consumer",
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		db:        db,
		batchSize: 200,
		interval:  time.Second,
	}
}

type fetched struct {
	event UsageEvent
	msg   kafka.Message
}

func (k *KafkaConsumer) Run(ctx context.Context) {
	events := make([]UsageEvent, 0, k.batchSize)
	msgs := make([]kafka.Message, 0, k.batchSize)
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	msgCh := make(chan fetched, k.batchSize)
	go k.fetch(ctx, msgCh)

	flush := func() {
		if len(msgs) == 0 {
			return
		}
		k.flush(events, msgs)
		events = events[:0]
		msgs = msgs[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case f, ok := <-msgCh:
			if !ok {
				flush()
				return
			}
			msgs = append(msgs, f.msg)
			if f.event.Profile != "" {
				events = append(events, f.event)
			}
			if len(msgs) >= k.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// fetch 读消息直到 ctx 结束或 reader 关闭，坏消息也会交给主循环以便提交 offset
func (k *KafkaConsumer) fetch(ctx context.Context, out chan<- fetched) {
	defer close(out)
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			slog.Error("kafka fetch failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var f fetched
		f.msg = msg
		if err := json.Unmarshal(msg.Value, &f.event); err != nil {
			slog.Error("unmarshal usage event failed", "err", err, "offset", msg.Offset)
		}
		select {
		case out <- f:
		case <-ctx.Done():
			return
		}
	}
}

func (k *KafkaConsumer) flush(events []UsageEvent, msgs []kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(events) > 0 {
		if _, err := writeBatch(ctx, k.db, events); err != nil {
			// 不提交 offset，重启后重新消费
			slog.Error("kafka consumer: write failed", "err", err, "events", len(events))
			return
		}
	}
	if err := k.reader.CommitMessages(ctx, msgs...); err != nil {
		slog.Error("kafka consumer: commit failed", "err", err)
		return
	}
	slog.Debug("kafka consumer: flushed", "count", len(events))
}

func (k *KafkaConsumer) Close() {
	if err := k.reader.Close(); err != nil {
		slog.Error("kafka reader close failed", "err", err)
	}
}
