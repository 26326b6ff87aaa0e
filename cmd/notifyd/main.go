package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bracketforge/notify/migrations"
	"github.com/bracketforge/notify/modules/notifications"
	"github.com/bracketforge/notify/pkg/config"
	"github.com/bracketforge/notify/pkg/deliverylog"
	"github.com/bracketforge/notify/pkg/devicetoken"
	"github.com/bracketforge/notify/pkg/httpserver"
	"github.com/bracketforge/notify/pkg/logger"
	"github.com/bracketforge/notify/pkg/notifier"
	"github.com/bracketforge/notify/pkg/pg"
	"github.com/bracketforge/notify/pkg/push"
	"github.com/bracketforge/notify/pkg/redis"
	"github.com/bracketforge/notify/pkg/settings"
	"github.com/bracketforge/notify/pkg/subscriptions"
)

type appConfig struct {
	Production  bool          `env:"APP_PRODUCTION" envDefault:"false"`
	SettingsKey string        `env:"NOTIFY_SETTINGS_KEY" envDefault:"notify:settings"`
	SettingsTTL time.Duration `env:"NOTIFY_SETTINGS_TTL" envDefault:"30s"`
}

func main() {
	var (
		appCfg   appConfig
		pgCfg    pg.Config
		redisCfg redis.Config
		pushCfg  push.Config
		httpCfg  httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&pushCfg)
	config.MustLoad(&httpCfg)

	var log *slog.Logger
	if appCfg.Production {
		log = logger.New(logger.WithProduction("notifyd"))
	} else {
		log = logger.New(logger.WithDevelopment("notifyd"))
	}
	logger.SetAsDefault(log)

	ctx := context.Background()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	gateway, err := push.NewClient(pushCfg, push.WithClientLogger(log))
	if err != nil {
		log.ErrorContext(ctx, "failed to create push client", logger.Error(err))
		os.Exit(1)
	}

	tokens := devicetoken.NewRegistry(
		devicetoken.NewPGStorage(pool),
		devicetoken.WithRegistryLogger(log),
	)
	subs := subscriptions.NewService(
		subscriptions.NewPGStorage(pool),
		subscriptions.WithServiceLogger(log),
	)

	settingsCache := settings.NewCache(
		settings.FromRedis[settings.Settings](redisClient, appCfg.SettingsKey),
		appCfg.SettingsTTL,
		settings.WithCacheLogger[settings.Settings](log),
	)

	engine := notifier.NewEngine(
		gateway,
		tokens,
		subs,
		deliverylog.NewPGStorage(pool),
		notifier.Directories{
			Tournaments:   platformDirectory{db: pool},
			Matches:       platformDirectory{db: pool},
			Registrations: platformDirectory{db: pool},
		},
		notifier.WithEngineLogger(log),
		notifier.WithSettings(settingsCache),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))
	r.Mount("/notifications", notifications.Router(notifications.RouterOptions{
		Tokens:        tokens,
		Subscriptions: subs,
		Engine:        engine,
		Logger:        log,
	}))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithServerLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "http server failed", logger.Error(err))
		os.Exit(1)
	}
}
