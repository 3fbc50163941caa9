package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hashids.local/gee"
	"hashids.local/gee/middleware"
	"hashids.local/hashids"
	"hashids.local/internal/app/codec"
	codeccache "hashids.local/internal/app/codec/cache"
	codechttpapi "hashids.local/internal/app/codec/httpapi"
	"hashids.local/internal/app/codec/repo"
	"hashids.local/internal/app/codec/stats"
	"hashids.local/internal/platform/auth"
	platformcache "hashids.local/internal/platform/cache"
	"hashids.local/internal/platform/config"
	"hashids.local/internal/platform/db"
	"hashids.local/internal/platform/httpmiddleware"
	"hashids.local/internal/platform/httpserver"
	"hashids.local/internal/platform/metrics"
	"hashids.local/internal/platform/migrate"
	"hashids.local/internal/platform/ratelimit"
	"hashids.local/internal/platform/trace"
	"hashids.local/migrations"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg := config.Load()

	var h slog.Handler
	if cfg.LogFormat == "text" {
		h = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel, TimeFormat: time.DateTime})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	}
	slog.SetDefault(slog.New(h).With("service", cfg.ServiceName))

	//DB
	dbCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	dbPool, errDB := db.New(dbCtx, cfg.DBDSN)
	if errDB != nil {
		log.Fatal(errDB)
	}
	defer dbPool.Close()
	if err := dbPool.Ping(dbCtx); err != nil {
		log.Fatal(err)
	}
	slog.Info("数据库连接成功")

	if cfg.MigrateOnStart {
		migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		res, err := migrate.Up(migCtx, dbPool, migrate.Options{Dir: cfg.MigrationsDir, FS: migrations.FS})
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		slog.Info("migrations done", "source", res.Source, "applied", len(res.AppliedFiles), "skipped", len(res.SkippedFiles))
	}

	profilesRepo := repo.NewProfilesRepo(dbPool)

	//Redis
	redisClient, errRedis := platformcache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if errRedis != nil {
		log.Fatal(errRedis)
	}
	defer redisClient.Close()
	//限流器
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewLimiter(redisClient)
	} else {
		slog.Warn("RateLimit disabled by config", "RATELIMIT_ENABLED", false)
	}

	// 内置 profile
	alphabet := cfg.DefaultAlphabet
	if alphabet == "" {
		alphabet = hashids.DefaultAlphabet
	}
	registry, errReg := codec.NewRegistry(profilesRepo, codec.Profile{
		Kind:      codec.KindHashids,
		Salt:      cfg.DefaultSalt,
		Alphabet:  alphabet,
		MinLength: cfg.DefaultMinLength,
	}, cfg.RegistryTTL)
	if errReg != nil {
		log.Fatal(errReg)
	}
	slog.Info("default profile ready", "fingerprint", registry.Default().FingerprintHex())

	//解码缓存
	var decodeCache codec.DecodeCache
	if cfg.DecodeCacheEnabled {
		localCache, errLocal := codeccache.NewLocalCache(cfg.DecodeCacheItems, cfg.DecodeCacheLocalTTL)
		if errLocal != nil {
			log.Fatal(errLocal)
		}
		dc := codeccache.NewDecodeCache(redisClient, localCache, cfg.DecodeCacheTTL)
		defer dc.Close()
		decodeCache = dc
	} else {
		slog.Warn("decode cache disabled by config", "DECODE_CACHE_ENABLED", false)
	}
	//已签发 hash 的布隆过滤器，只在本实例内有效
	issued := codeccache.NewIssuedFilter(cfg.IssuedFilterItems, cfg.IssuedFilterFPRate)

	//初始化用量收集器（根据配置选择 Channel 或 Kafka）
	var collector stats.Collector
	var kafkaConsumer *stats.KafkaConsumer
	var channelConsumer *stats.Consumer
	if cfg.KafkaEnabled {
		slog.Info("使用 Kafka 收集用量", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		collector = stats.NewKafkaCollector(cfg.KafkaBrokers, cfg.KafkaTopic)
		kafkaConsumer = stats.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, dbPool)
	} else {
		slog.Info("使用 Channel 收集用量")
		channelCollector := stats.NewChannelCollector(10000)
		collector = channelCollector
		channelConsumer = stats.NewConsumer(dbPool, channelCollector)
	}

	svc := codec.NewService(codec.Deps{
		Registry:     registry,
		Store:        profilesRepo,
		Usage:        profilesRepo,
		Cache:        decodeCache,
		Issued:       issued,
		Collector:    collector,
		MasterSecret: cfg.MasterSecret,
	})

	// JWT
	ts, jwtErr := auth.NewHS256Service(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if jwtErr != nil {
		log.Fatal(jwtErr)
	}

	metrics.Init()

	var shutdown func(context.Context) error
	if cfg.TracingEnabled {
		shutdown = trace.InitTrace(trace.Options{
			Endpoint:       cfg.OtlpGrpcEndpoint,
			ServiceName:    cfg.OtlpServiceName,
			ServiceVersion: version,
			SampleRatio:    cfg.TraceSampleRatio,
		})
		if shutdown == nil {
			slog.Error("Trace init failed")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error(err.Error())
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	// 对外业务
	r := gee.New()
	r.Use(gee.Recovery(), middleware.ReqID(), middleware.AccessLog(), httpmiddleware.Metrics(), httpmiddleware.TraceName())

	api := r.Group("/api/v1")
	codechttpapi.RegisterAPIRoutes(api, svc, ts, limiter, codechttpapi.Limits{
		Encode: cfg.EncodeRateLimit,
		Decode: cfg.DecodeRateLimit,
	})

	r.GET("/healthz", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(r, "http")
	}
	publicSrv := httpserver.New(cfg, publicHandler)

	// 仅本机/内网
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	// 数据库和 Redis 连接状态检测
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("DB Ping Err"))
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Redis Ping Err"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name":  cfg.ServiceName,
			"version":       version,
			"commit":        commit,
			"build_time":    buildTime,
			"go_version":    runtime.Version(),
			"issued_hashes": issued.Count(),
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	adminSrv := httpserver.NewAdmin(cfg, adminMux)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动 Kafka consumer（如果启用）
	if kafkaConsumer != nil {
		go kafkaConsumer.Run(stopCtx)
		defer kafkaConsumer.Close()
	}
	// 启动 Channel consumer（如果启用）
	if channelConsumer != nil {
		go channelConsumer.Run(stopCtx)
	}
	defer collector.Close()

	if err := httpserver.RunAll(stopCtx, cfg.ShutdownTimeout, publicSrv, adminSrv); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
