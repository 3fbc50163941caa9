package stats

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Writer 批量写入能力，*pgxpool.Pool 满足
type Writer interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var usageColumns = []string{"profile", "op", "numbers", "ip", "occurred_at"}

// writeBatch 用 COPY 一次写入整批事件
func writeBatch(ctx context.Context, w Writer, batch []UsageEvent) (int64, error) {
	return w.CopyFrom(ctx, pgx.Identifier{"codec_usage"}, usageColumns,
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			e := batch[i]
			return []any{e.Profile, e.Op, int32(e.Count), e.IP, e.At}, nil
		}))
}
