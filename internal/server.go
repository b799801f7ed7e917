package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/hypertrophytoolbox/internal/config"
	"github.com/2beens/hypertrophytoolbox/internal/db"
	"github.com/2beens/hypertrophytoolbox/internal/middleware"
	"github.com/2beens/hypertrophytoolbox/internal/telemetry/metrics"
	"github.com/2beens/hypertrophytoolbox/internal/telemetry/tracing"
	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
	volumemcp "github.com/2beens/hypertrophytoolbox/internal/training/mcp"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config        *config.Config
	dbPool        *pgxpool.Pool
	catalogStore  *catalog.CachedStore
	volumeService *volume.Service

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	DBUser                  string
	DBPassword              string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	weights, classifier, err := volume.FromConfig(params.Config.Volume)
	if err != nil {
		return nil, fmt.Errorf("volume settings: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.DBUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("hypertrophy", "service", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "hypertrophy-toolbox")
	if err != nil {
		return nil, err
	}

	catalogStore := catalog.NewCachedStore(
		catalog.NewRepo(dbPool),
		params.Config.Volume.CatalogCacheSizeMB,
		params.Config.Volume.CatalogCacheTTL.Duration,
	)

	return &Server{
		config:        params.Config,
		dbPool:        dbPool,
		catalogStore:  catalogStore,
		volumeService: volume.NewService(entries.NewRepo(dbPool), catalogStore, classifier, weights, metricsManager),
		versionInfo:   params.VersionInfo,

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("volume-router"))

	volumeHandler := volume.NewHandler(s.volumeService, s.config.Volume.IncludeAllByDefault)
	r.HandleFunc("/volume/summary", volumeHandler.HandleSummary).Methods("GET", "OPTIONS").Name("volume-summary")
	r.HandleFunc("/volume/sessions", volumeHandler.HandleSessions).Methods("GET", "OPTIONS").Name("volume-sessions")
	r.HandleFunc("/volume/categories", volumeHandler.HandleCategories).Methods("GET", "OPTIONS").Name("volume-categories")
	r.HandleFunc("/volume/isolated", volumeHandler.HandleIsolated).Methods("GET", "OPTIONS").Name("volume-isolated")
	r.HandleFunc("/volume/classify", volumeHandler.HandleClassify).Methods("GET", "OPTIONS").Name("volume-classify")

	// the export is the expensive one, limit it per client
	exportRouter := r.PathPrefix("/volume/export").Subrouter()
	exportRouter.HandleFunc("", volumeHandler.HandleExport).Methods("GET", "OPTIONS").Name("volume-export")
	exportRouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"volume-export",
		s.config.ExportRateLimitAllowedPerMin,
		s.metricsManager,
	))

	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	mcpServer := volumemcp.NewServer(s.volumeService)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcpHandler, "mcp")).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// adminRouterSetup serves the internal listener: prometheus metrics and the
// catalog cache controls. It is bound to PrometheusMetricsHost and never
// exposed next to the public routes.
func (s *Server) adminRouterSetup() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	)).Methods("GET").Name("metrics")
	r.HandleFunc("/catalog/invalidate", s.handleCatalogInvalidate).Methods("POST").Name("catalog-invalidate")
	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	return r
}

// handleCatalogInvalidate drops the cached exercise definitions, so catalog
// edits show up before the cache TTL runs out.
func (s *Server) handleCatalogInvalidate(w http.ResponseWriter, _ *http.Request) {
	log.Debugf("invalidating catalog cache, hit rate was: %.2f", s.catalogStore.HitRate())
	s.catalogStore.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(s.versionInfo)); err != nil {
		log.Errorf("write version: %s", err)
	}
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: s.adminRouterSetup(),
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
