package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "hashids.local/codec"

// 编解码 span 的属性 key
const (
	AttrProfile   = "hashids.profile"
	AttrOperation = "hashids.op"
	AttrCount     = "hashids.numbers"
	AttrHashLen   = "hashids.hash_length"
	AttrCacheHit  = "hashids.cache_hit"
)

// StartOp 开一个编解码 span，没有初始化 TracerProvider 时是 noop
func StartOp(ctx context.Context, profile, op string) (context.Context, oteltrace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "codec."+op,
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
		oteltrace.WithAttributes(
			attribute.String(AttrProfile, profile),
			attribute.String(AttrOperation, op),
		))
}

// EndOp 记录错误并结束 span
func EndOp(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
