package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vidalaw/intake-api/app/core/srv"
	"github.com/vidalaw/intake-api/app/store/sqlstore"
	"github.com/vidalaw/intake-api/pkg/types"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() *sqlstore.Provider
	httpClient *http.Client
	httpEngine *gin.Engine

	redis   redis.UniversalClient
	cache   *Cache
	storage FileStorage

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("intake", "core"),
		httpEngine: gin.New(),
	}

	setupSqlStore(core)

	core.redis = setupRedis(cfg.Redis)
	core.cache = &Cache{redis: core.redis, prefix: cfg.Redis.KeyPrefix}
	core.storage = SetupObjectStorage(cfg.ObjectStorage)

	dispatcher := srv.NewDispatcher(cfg.Webhook.Endpoint, cfg.Webhook.Secret, cfg.Webhook.MaxAttempts)
	dispatcher.OnRetry(core.metrics.WebhookRetryInc)

	core.srv = srv.SetupSrvs(
		srv.ApplyDispatcher(dispatcher),
		srv.ApplyPdfRenderer(srv.NewPdfRenderer(cfg.Pdf.RenderEndpoint)),
	)

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) Cache() types.Cache {
	return s.cache
}

func (s *Core) Redis() redis.UniversalClient {
	return s.redis
}

func (s *Core) FileStorage() FileStorage {
	return s.storage
}
