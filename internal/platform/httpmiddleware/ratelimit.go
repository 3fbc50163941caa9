package httpmiddleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"hashids.local/gee"
	"hashids.local/internal/platform/ratelimit"
)

var rateLimitMemberSeq atomic.Uint64

// trustedProxies 这些网段来的请求才信任转发头：同机反代、RFC1918 内网、IPv6 ULA
var trustedProxies = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("fc00::/7"),
}

// forwardedHeaders 按优先级排列；XFF 只取第一个 IP，后面是经过的代理
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP 获取真实客户端 IP，用于限流和用量统计。
// 只有直连方是可信代理时才看转发头，否则客户端可以伪造 X-Forwarded-For 绕过限流。
func ClientIP(req *http.Request) string {
	remoteHost, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		remoteHost = req.RemoteAddr
	}
	remote, err := netip.ParseAddr(remoteHost)
	if err != nil || !isTrustedProxy(remote) {
		return remoteHost
	}

	for _, h := range forwardedHeaders {
		v := req.Header.Get(h)
		if first, _, ok := strings.Cut(v, ","); ok {
			v = first
		}
		if addr, err := netip.ParseAddr(strings.TrimSpace(v)); err == nil {
			return addr.String()
		}
	}
	return remoteHost
}

func isTrustedProxy(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() {
		return true
	}
	for _, p := range trustedProxies {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// RateLimit 按客户端 IP 做滑动窗口限流，limiter 为 nil 或 limit<=0 时不限流。
// prefix 区分不同的限流桶，例如 encode / decode。
func RateLimit(limiter *ratelimit.Limiter, prefix string, limit int, window time.Duration) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		if limiter == nil || limit <= 0 {
			ctx.Next()
			return
		}
		key := rateLimitKey(prefix, ClientIP(ctx.Req))
		// member 必须“每次请求唯一”，否则 ZADD 会覆盖同一个 member。
		// 在 Windows/虚拟化环境中 time.Now().UnixNano() 可能短时间内重复；加序列号保证唯一。
		member := strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + strconv.FormatUint(rateLimitMemberSeq.Add(1), 10)
		rlCtx, cancel := context.WithTimeout(ctx.Req.Context(), 50*time.Millisecond)
		defer cancel()
		allowed, retryAfter, err := limiter.Allow(rlCtx, key, limit, window, member)
		if err != nil {
			slog.Error("rate limit check failed", "key", key, "err", err)
			ctx.Next() // Redis 故障时放行
			return
		}
		if !allowed {
			if retryAfter > 0 {
				// 标准语义：Retry-After 单位是秒。
				secs := int64((retryAfter + time.Second - 1) / time.Second) // ceil
				ctx.SetHeader("Retry-After", strconv.FormatInt(secs, 10))
			}
			ctx.AbortWithError(http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		ctx.Next()
	}
}

func rateLimitKey(prefix, ip string) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(ip) + 4)
	b.WriteString("rl:")
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(ip)
	return b.String()
}
