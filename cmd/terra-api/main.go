// README: Entry point; loads config, wires providers and the recommendation pipeline, starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"terra/internal/ai"
	"terra/internal/config"
	httptransport "terra/internal/http"
	"terra/internal/infra"
	"terra/internal/logger"
	"terra/internal/maps"
	"terra/internal/modules/bookmark"
	"terra/internal/modules/conversation"
	"terra/internal/modules/reachability"
	"terra/internal/service"
	"terra/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", slog.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("terra-api stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, closeStore, err := bookmarkStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	geocoder, err := maps.NewGeocodeService(cfg.Maps.GoogleKey)
	if err != nil {
		return fmt.Errorf("geocode client: %w", err)
	}
	router, err := maps.NewRouteService(cfg.Maps.GoogleKey)
	if err != nil {
		return fmt.Errorf("directions client: %w", err)
	}
	overpass := maps.NewOverpassService(cfg.Maps.OverpassURL, cfg.Client.Timeout)

	gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		return err
	}
	defer gemini.Close()

	if cfg.Weather.OpenWeatherKey == "" {
		log.Warn("OPENWEATHER_API_KEY not set; recommendations will omit weather")
	}

	pipeline := service.NewPipeline(service.Deps{
		History:      conversation.NewStore(cfg.Pipeline.HistoryCapacity),
		Locations:    geocoder,
		Weather:      weather.NewService(cfg.Weather.OpenWeatherKey, cfg.Client.Timeout),
		Places:       overpass,
		Reachability: reachability.NewService(router, overpass, log),
		Generator:    gemini,
	}, cfg.Pipeline, log)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Pipeline:  pipeline,
		Bookmarks: bookmark.NewService(store),
		Logger:    log,
	})

	log.Info("listening", slog.String("addr", cfg.HTTP.Addr), slog.String("bookmarks", cfg.Bookmarks.Backend))
	return httptransport.Serve(ctx, httptransport.NewServer(cfg.HTTP.Addr, handler), log)
}

func bookmarkStore(ctx context.Context, cfg config.Config) (bookmark.Store, func(), error) {
	switch cfg.Bookmarks.Backend {
	case config.BackendRedis:
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return bookmark.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case config.BackendPostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		return bookmark.NewPgStore(pool), pool.Close, nil
	default:
		return bookmark.NewMemoryStore(), func() {}, nil
	}
}
