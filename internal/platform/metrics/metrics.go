package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once 保证指标只注册一次，重复注册同名指标会 panic。
	once sync.Once

	// HTTPRequestsTotal：累计请求数。
	//
	// labels：
	// - method：HTTP 方法
	// - route：路由模板（/api/v1/profiles/:name/encode），不用真实 path，否则 label 无限增长
	// - status：HTTP 状态码字符串
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP请求的总数",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds：请求耗时分布，用来算 P95/P99。
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPInflightRequests：当前正在处理中的请求数。
	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// HTTPResponseSizeBytes：响应体大小，decode 返回的数字个数不定
	HTTPResponseSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response body sizes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 6),
		},
		[]string{"method", "route"},
	)

	// CodecOperations：编解码次数。
	//
	// labels：
	// - profile：profile 名（数量由管理员控制，基数有限）
	// - op：encode / decode / encode_hex / decode_hex
	// - result：ok / invalid / not_issued / error
	CodecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hashids_operations_total",
			Help: "Encode/decode operations by profile and result.",
		},
		[]string{"profile", "op", "result"},
	)

	// EncodedLength：生成的 hash 长度分布
	EncodedLength = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hashids_encoded_length",
			Help:    "Length of encoded hashes.",
			Buckets: []float64{4, 6, 8, 10, 12, 16, 24, 32, 48, 64, 128},
		},
		[]string{"profile"},
	)

	// CacheOperations：解码缓存命中情况，layer=local|redis，result=hit|miss|negative
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decode_cache_operations_total",
			Help: "Decode cache lookups by layer and result.",
		},
		[]string{"layer", "result"},
	)
)

// Init 注册指标：只允许注册一次（否则 panic: duplicate metrics collector registration）
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			HTTPResponseSizeBytes,
			CodecOperations,
			EncodedLength,
			CacheOperations,
		)
	})
}
