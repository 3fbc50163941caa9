package codec

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"hashids.local/internal/app/codec/cache"
	"hashids.local/internal/app/codec/stats"
	"hashids.local/internal/platform/metrics"
	"hashids.local/internal/platform/trace"
)

// 单次请求的上限
const (
	MaxNumbers    = 128
	MaxHashLength = 4096
)

// DecodeCache 解码结果缓存，cache.DecodeCache 实现
type DecodeCache interface {
	Get(ctx context.Context, key string) (cache.Entry, bool, error)
	Set(ctx context.Context, key string, numbers []uint64) error
	SetInvalid(ctx context.Context, key string) error
}

// IssuedFilter 记录签发过的 hash，cache.IssuedFilter 实现
type IssuedFilter interface {
	Add(key string)
	MightExist(key string) bool
}

// UsageStore 查询用量汇总，repo.ProfilesRepo 实现
type UsageStore interface {
	UsageSummary(ctx context.Context, name string, since time.Time) ([]UsageTotal, error)
}

// UsageTotal 某个操作在时间段内的合计
type UsageTotal struct {
	Op       string
	Requests int64
	Numbers  int64
}

// Deps 除 Registry 外都可以为 nil
type Deps struct {
	Registry     *Registry
	Store        ProfileStore
	Usage        UsageStore
	Cache        DecodeCache
	Issued       IssuedFilter
	Collector    stats.Collector
	MasterSecret string
}

type Service struct {
	registry     *Registry
	store        ProfileStore
	usage        UsageStore
	cache        DecodeCache
	issued       IssuedFilter
	collector    stats.Collector
	masterSecret string
	now          func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		registry:     d.Registry,
		store:        d.Store,
		usage:        d.Usage,
		cache:        d.Cache,
		issued:       d.Issued,
		collector:    d.Collector,
		masterSecret: d.MasterSecret,
		now:          time.Now,
	}
}

type clientIPKey struct{}

// WithClientIP 把调用方 IP 带给用量统计
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// Encode 用指定 profile 编码一组数字
func (s *Service) Encode(ctx context.Context, name string, numbers []uint64) (hash string, err error) {
	ctx, span := trace.StartOp(ctx, name, stats.OpEncode)
	defer func() { trace.EndOp(span, err) }()
	span.SetAttributes(attribute.Int(trace.AttrCount, len(numbers)))

	e, err := s.lookup(ctx, name, stats.OpEncode)
	if err != nil {
		return "", err
	}
	if err := checkNumbers(numbers); err != nil {
		s.observe(name, stats.OpEncode, err)
		return "", err
	}

	hash, err = e.Codec.Encode(numbers)
	s.observe(name, stats.OpEncode, err)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Int(trace.AttrHashLen, len(hash)))
	metrics.EncodedLength.WithLabelValues(name).Observe(float64(len(hash)))

	key := s.key(e, hash)
	if s.issued != nil {
		s.issued.Add(key)
	}
	// 预热解码缓存，失败不影响结果
	if s.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		if err := s.cache.Set(cacheCtx, key, slices.Clone(numbers)); err != nil {
			slog.Warn("decode cache set failed", "profile", name, "err", err)
		}
	}
	s.record(ctx, name, stats.OpEncode, len(numbers))
	return hash, nil
}

// Decode strict 为 true 时拒绝本服务没有签发过的 hash
func (s *Service) Decode(ctx context.Context, name, hash string, strict bool) (numbers []uint64, err error) {
	ctx, span := trace.StartOp(ctx, name, stats.OpDecode)
	defer func() { trace.EndOp(span, err) }()
	span.SetAttributes(attribute.Int(trace.AttrHashLen, len(hash)))

	e, err := s.lookup(ctx, name, stats.OpDecode)
	if err != nil {
		return nil, err
	}
	if hash == "" || len(hash) > MaxHashLength {
		err = ErrInvalidHash
		s.observe(name, stats.OpDecode, err)
		return nil, err
	}

	key := s.key(e, hash)
	if strict && s.issued != nil && !s.issued.MightExist(key) {
		s.observe(name, stats.OpDecode, ErrNotIssued)
		return nil, ErrNotIssued
	}

	if s.cache != nil {
		entry, ok, cerr := s.cache.Get(ctx, key)
		if cerr != nil {
			slog.Warn("decode cache get failed", "profile", name, "err", cerr)
		}
		if ok {
			span.SetAttributes(attribute.Bool(trace.AttrCacheHit, true))
			if entry.Invalid {
				s.observe(name, stats.OpDecode, ErrInvalidHash)
				return nil, ErrInvalidHash
			}
			s.observe(name, stats.OpDecode, nil)
			s.record(ctx, name, stats.OpDecode, len(entry.Numbers))
			// 缓存里的切片会被后续请求共享，不能交给调用方
			return slices.Clone(entry.Numbers), nil
		}
	}

	numbers, err = e.Codec.Decode(hash)
	s.observe(name, stats.OpDecode, err)
	if s.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		var cerr error
		switch {
		case err == nil:
			cerr = s.cache.Set(cacheCtx, key, slices.Clone(numbers))
		case errors.Is(err, ErrInvalidHash):
			cerr = s.cache.SetInvalid(cacheCtx, key)
		}
		if cerr != nil {
			slog.Warn("decode cache set failed", "profile", name, "err", cerr)
		}
	}
	if err != nil {
		return nil, err
	}
	s.record(ctx, name, stats.OpDecode, len(numbers))
	return numbers, nil
}

// EncodeHex 只有 hashids 类型的 profile 支持
func (s *Service) EncodeHex(ctx context.Context, name, hex string) (hash string, err error) {
	ctx, span := trace.StartOp(ctx, name, stats.OpEncodeHex)
	defer func() { trace.EndOp(span, err) }()

	hc, e, err := s.hexCodec(ctx, name, stats.OpEncodeHex)
	if err != nil {
		return "", err
	}
	if len(hex) > MaxHashLength {
		err = ErrInvalidNumber
		s.observe(name, stats.OpEncodeHex, err)
		return "", err
	}
	hash, err = hc.EncodeHex(hex)
	s.observe(name, stats.OpEncodeHex, err)
	if err != nil {
		return "", err
	}
	metrics.EncodedLength.WithLabelValues(name).Observe(float64(len(hash)))
	if s.issued != nil {
		s.issued.Add(s.key(e, hash))
	}
	s.record(ctx, name, stats.OpEncodeHex, 1)
	return hash, nil
}

func (s *Service) DecodeHex(ctx context.Context, name, hash string) (hex string, err error) {
	ctx, span := trace.StartOp(ctx, name, stats.OpDecodeHex)
	defer func() { trace.EndOp(span, err) }()

	hc, _, err := s.hexCodec(ctx, name, stats.OpDecodeHex)
	if err != nil {
		return "", err
	}
	if hash == "" || len(hash) > MaxHashLength {
		err = ErrInvalidHash
		s.observe(name, stats.OpDecodeHex, err)
		return "", err
	}
	hex, err = hc.DecodeHex(hash)
	s.observe(name, stats.OpDecodeHex, err)
	if err != nil {
		return "", err
	}
	s.record(ctx, name, stats.OpDecodeHex, 1)
	return hex, nil
}

// Info 返回可以公开的 profile 信息，停用的 profile 也返回 ErrProfileDisabled
func (s *Service) Info(ctx context.Context, name string) (*Entry, error) {
	return s.registry.Lookup(ctx, name)
}

func (s *Service) hexCodec(ctx context.Context, name, op string) (HexCodec, *Entry, error) {
	e, err := s.lookup(ctx, name, op)
	if err != nil {
		return nil, nil, err
	}
	hc, ok := e.Codec.(HexCodec)
	if !ok {
		s.observe(name, op, ErrUnsupported)
		return nil, nil, ErrUnsupported
	}
	return hc, e, nil
}

func (s *Service) lookup(ctx context.Context, name, op string) (*Entry, error) {
	e, err := s.registry.Lookup(ctx, name)
	if err != nil {
		// profile 名来自请求，不存在的不能进 label
		metrics.CodecOperations.WithLabelValues("unknown", op, resultLabel(err)).Inc()
		return nil, err
	}
	return e, nil
}

func (s *Service) key(e *Entry, hash string) string {
	return cache.Key(e.Profile.Name, e.FingerprintHex(), hash)
}

func (s *Service) observe(name, op string, err error) {
	metrics.CodecOperations.WithLabelValues(name, op, resultLabel(err)).Inc()
}

func (s *Service) record(ctx context.Context, name, op string, count int) {
	if s.collector == nil {
		return
	}
	s.collector.Collect(stats.UsageEvent{
		Profile: name,
		Op:      op,
		Count:   count,
		IP:      clientIP(ctx),
		At:      s.now(),
	})
}

func checkNumbers(numbers []uint64) error {
	switch {
	case len(numbers) == 0:
		return ErrEmptyNumbers
	case len(numbers) > MaxNumbers:
		return ErrTooManyNumbers
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidHash), errors.Is(err, ErrInvalidNumber),
		errors.Is(err, ErrEmptyNumbers), errors.Is(err, ErrTooManyNumbers):
		return "invalid"
	case errors.Is(err, ErrNotIssued):
		return "not_issued"
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrProfileDisabled):
		return "no_profile"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "error"
	}
}
