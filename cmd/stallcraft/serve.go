package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/stallcraft/stallcraft/internal/config"
	"github.com/stallcraft/stallcraft/internal/content"
	"github.com/stallcraft/stallcraft/internal/db"
	"github.com/stallcraft/stallcraft/internal/docstore"
	"github.com/stallcraft/stallcraft/internal/handlers"
	"github.com/stallcraft/stallcraft/internal/logger"
	"github.com/stallcraft/stallcraft/internal/media"
	"github.com/stallcraft/stallcraft/internal/server"
	"github.com/stallcraft/stallcraft/internal/storage"
	minioprovider "github.com/stallcraft/stallcraft/internal/storage/providers/minio"
	"github.com/stallcraft/stallcraft/internal/sweep"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,
			docstore.NewStore,
			provideContentStore,
			provideStorageProvider,
			provideMediaService,
			content.NewBlogService,
			content.NewProductService,
			content.NewTestimonialService,
			content.NewLeadService,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewBlogHandler),
			provideServerHandler(handlers.NewProductHandler),
			provideServerHandler(handlers.NewTestimonialHandler),
			provideServerHandler(handlers.NewLeadHandler),
			provideServer,
		),
		fx.Invoke(
			startCacheWatchers,
			startSweeper,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

func provideStorageProvider(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (storage.Provider, error) {
	provider, err := minioprovider.New(log, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage provider: %w", err)
	}
	lc.Append(fx.Hook{OnStart: func(ctx context.Context) error {
		return provider.EnsureBucket(ctx)
	}})
	return provider, nil
}

func provideContentStore(store *docstore.Store) content.Store { return store }

func provideMediaService(log *slog.Logger, provider storage.Provider, cfg config.Config) *media.Service {
	return media.NewService(log, provider, cfg.Media)
}

type serverParams struct {
	fx.In
	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	addr := params.Config.Server.Addr
	if value := os.Getenv("HTTP_ADDR"); value != "" {
		addr = value
	}
	return server.NewServer(addr, params.Logger, params.ServerHandlers)
}

// startCacheWatchers keeps each list cache coherent across processes: any
// document write notifies every instance, which drops its snapshot.
func startCacheWatchers(lc fx.Lifecycle, blogs *content.BlogService, products *content.ProductService, testimonials *content.TestimonialService, leads *content.LeadService) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go blogs.Watch(ctx)
			go products.Watch(ctx)
			go testimonials.Watch(ctx)
			go leads.Watch(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error { cancel(); return nil },
	})
}

func startSweeper(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, provider storage.Provider, store *docstore.Store, mediaService *media.Service) {
	if !cfg.Sweep.Enabled {
		return
	}
	sweeper := sweep.New(log, provider, store, mediaService.Namespace(), cfg.Sweep)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error { return sweeper.Start() },
		OnStop:  func(_ context.Context) error { sweeper.Stop(); return nil },
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
