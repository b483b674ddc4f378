package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	grpc_prom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Nazarious-ucu/weather-app/internal/config"
	httpHandlers "github.com/Nazarious-ucu/weather-app/internal/handlers/http"
	"github.com/Nazarious-ucu/weather-app/internal/models"
	"github.com/Nazarious-ucu/weather-app/internal/refresher"
	"github.com/Nazarious-ucu/weather-app/internal/repository/files"
	"github.com/Nazarious-ucu/weather-app/internal/services/cache"
	loggerT "github.com/Nazarious-ucu/weather-app/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-app/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-app/internal/services/search"
	"github.com/Nazarious-ucu/weather-app/internal/services/search/decorators"
	serviceWeather "github.com/Nazarious-ucu/weather-app/internal/services/weather"
	fLogger "github.com/Nazarious-ucu/weather-app/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	cacheKeyPrefix  = "weather:search:"
	cacheNamespace  = "weather_app"
)

// ServiceContainer holds initialized dependencies for servers.
type ServiceContainer struct {
	SearchService *search.Service
	Refresher     *refresher.Refresher
	GrpcServer    *grpc.Server
	Health        *health.Server

	Router *gin.Engine
	Srv    *http.Server

	fileLogger      *zap.Logger
	redisClient     *redis.Client
	shutdownTracing shutdownFunc
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start builds the services, runs the HTTP and gRPC servers and blocks until
// ctx is cancelled or a server fails.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Build(ctx)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 2)

	go func() {
		a.l.Info().Str("address", srvContainer.Srv.Addr).Msg("HTTP server running")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	go func() {
		addr := a.cfg.GrpcAddress()
		l, err := net.Listen("tcp", addr)
		if err != nil {
			serveErr <- err
			return
		}
		a.l.Info().Str("address", addr).Msg("gRPC server running")
		if err := srvContainer.GrpcServer.Serve(l); err != nil {
			serveErr <- err
		}
	}()

	if srvContainer.Refresher != nil {
		if err := srvContainer.Refresher.Start(ctx); err != nil {
			a.l.Error().Err(err).Msg("favorites refresher disabled")
		}
	}

	a.l.Info().Msg("weather app started successfully")

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping weather app")
	case runErr = <-serveErr:
		a.l.Error().Err(runErr).Msg("server failed, stopping weather app")
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return errors.Join(runErr, err)
	}
	a.l.Info().Msg("application shutdown successfully")
	return runErr
}

// Shutdown stops servers and background jobs, then flushes telemetry and logs.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping weather app…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	if srvContainer.Refresher != nil {
		if err := srvContainer.Refresher.Stop(); err != nil {
			a.l.Warn().Err(err).Msg("refresher stop")
		}
	}

	srvContainer.Health.Shutdown()
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	a.l.Info().Msg("shutting down gRPC server")
	srvContainer.GrpcServer.GracefulStop()

	if srvContainer.redisClient != nil {
		if err := srvContainer.redisClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := srvContainer.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := srvContainer.fileLogger.Sync(); err != nil {
		a.l.Error().Err(err).Msg("failed to sync file logger")
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Build wires every dependency without starting any server.
func (a *App) Build(_ context.Context) (ServiceContainer, error) {
	a.l.Info().
		Str("data_dir", a.cfg.Storage.DataDir).
		Bool("redis", a.cfg.Redis.Enabled).
		Bool("tracing", a.cfg.Tracing.ZipkinEndpoint != "").
		Msg("initializing weather app")

	shutdownTracing, err := setupTracing(a.cfg.Tracing)
	if err != nil {
		return ServiceContainer{}, err
	}

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, provider calls will not be audited")
		fileLogger = zap.NewNop()
	}

	// Provider calls: metrics wrap the zap audit log, which wraps the default transport.
	httpClient := &http.Client{
		Transport: a.m.RoundTripper(loggerT.NewRoundTripper(fileLogger, http.DefaultTransport)),
		Timeout:   a.cfg.Provider.RequestTimeout(),
	}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	provider := serviceWeather.NewBreakerClient("OpenWeather", breakerCfg,
		serviceWeather.NewClientOpenWeatherMap(serviceWeather.ClientConfig{
			APIKey:     a.cfg.Provider.APIKey,
			BaseURL:    a.cfg.Provider.BaseURL,
			ProURL:     a.cfg.Provider.ProURL,
			MaxRetries: a.cfg.Provider.MaxRetries,
			RetryBase:  a.cfg.Provider.RetryBaseDelay(),
		}, httpClient, a.l),
	)

	st := a.cfg.Storage
	favorites := files.NewFavoritesStore(st.DataDir, st.FavoritesFile)
	history := files.NewHistoryStore(st.DataDir, st.HistoryFile)
	lastSearch := files.NewLastSearchStore(st.DataDir, st.LastSearchFile)

	pipeline := search.NewPipeline(provider, a.l)

	srvContainer := ServiceContainer{
		fileLogger:      fileLogger,
		shutdownTracing: shutdownTracing,
	}

	var lookup interface {
		Lookup(ctx context.Context, city string) (models.SearchResult, error)
	} = pipeline

	if a.cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddress(), DB: a.cfg.Redis.DB})
		cacheMetrics := cache.NewMetricsDecorator[models.SearchResult](
			cache.NewRedisClient[models.SearchResult](
				redisClient, a.l, cacheKeyPrefix, time.Duration(a.cfg.Redis.LiveTime)*time.Minute,
			),
			metricsSvc.NewPromCollector(a.m.Registry(), cacheNamespace),
		)
		cached := decorators.NewCachedLookup(pipeline, cacheMetrics, a.l)
		lookup = cached

		srvContainer.redisClient = redisClient
		srvContainer.Refresher = refresher.New(favorites, cached, a.l, a.cfg.Refresher.Schedule, a.m)
	}

	srvContainer.SearchService = search.NewService(lookup, favorites, history, lastSearch, a.l)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), a.m.HTTPMiddleware())
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	httpHandlers.NewHandler(srvContainer.SearchService).Register(router)

	// gRPC server exposes health checks only, instrumented like the HTTP side
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(a.m.UnaryInterceptor()),
		grpc.StreamInterceptor(a.m.StreamInterceptor()),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpc_prom.Register(grpcServer)

	srvContainer.Router = router
	srvContainer.GrpcServer = grpcServer
	srvContainer.Health = healthServer
	srvContainer.Srv = &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return srvContainer, nil
}
