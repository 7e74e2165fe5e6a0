package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/graph"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/lookup"
	"github.com/vzahanych/weather-lookup/internal/server/handlers"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	server *http.Server
	lookup *lookup.Lookup
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

// NewServer wires the OpenWeatherMap provider into the HTTP surface.
func NewServer(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	svc := service.NewOpenWeatherServiceWithConfig(cfg.Weather, logger, tele)
	return NewServerWithService(cfg, svc, logger, tele)
}

func NewServerWithService(cfg *config.Config, svc service.WeatherService, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	defaultUnits, err := location.ParseUnits(cfg.Weather.DefaultUnits)
	if err != nil {
		return nil, fmt.Errorf("default units: %w", err)
	}

	l := lookup.New(svc, defaultUnits, logger, tele)

	schema, err := graph.NewSchema(l, defaultUnits)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := middlewares.NewMetricsMiddleware(logger, tele)
	metricsHandler := handlers.NewMetricsHandler(metrics)
	l.SetMetricsRecorder(metricsHandler)

	engine := gin.New()
	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(metrics.Handler())
	engine.Use(middlewares.CORSMiddleware(cfg.Server.AllowedOrigins))
	engine.SetHTMLTemplate(handlers.Templates())

	s := &Server{
		cfg:    cfg,
		engine: engine,
		lookup: l,
		logger: logger,
		tele:   tele,
	}

	s.setupRoutes(schema, defaultUnits, metricsHandler)

	return s, nil
}

func (s *Server) setupRoutes(schema graphql.Schema, defaultUnits location.Units, metrics *handlers.MetricsHandler) {
	// Client page
	s.engine.GET("/", handlers.NewPageHandler(s.lookup, defaultUnits, s.logger).Index)

	// Query API
	gql := handlers.NewGraphQLHandler(schema, s.logger)
	s.engine.GET("/graphql", gql.Serve)
	s.engine.POST("/graphql", gql.Serve)

	weather := handlers.NewWeatherHandler(s.lookup, s.logger)
	s.engine.GET("/weather", weather.GetWeather)
	s.engine.GET("/weather/schema", weather.Schema)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.cfg.Version, s.cfg.Weather)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metrics.ServeMetrics)
}

// Engine exposes the router, mostly for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
