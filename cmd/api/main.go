package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/wayline/wayline/config"
	planrepo "github.com/wayline/wayline/internal/repositories/plan"
	"github.com/wayline/wayline/pkg/budget"
	"github.com/wayline/wayline/pkg/cache"
	"github.com/wayline/wayline/pkg/consolidate"
	"github.com/wayline/wayline/pkg/database"
	"github.com/wayline/wayline/pkg/events"
	"github.com/wayline/wayline/pkg/expressions"
	"github.com/wayline/wayline/pkg/fetch"
	"github.com/wayline/wayline/pkg/httpclient"
	"github.com/wayline/wayline/pkg/kafka"
	"github.com/wayline/wayline/pkg/logging"
	"github.com/wayline/wayline/pkg/middleware"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/normalize"
	"github.com/wayline/wayline/pkg/optimizer"
	"github.com/wayline/wayline/pkg/pairing"
	"github.com/wayline/wayline/pkg/planner"
	"github.com/wayline/wayline/pkg/providers"
	"github.com/wayline/wayline/pkg/redis"
	"github.com/wayline/wayline/pkg/routes/health"
	"github.com/wayline/wayline/pkg/routes/plan"
	"github.com/wayline/wayline/pkg/startup"
	"github.com/wayline/wayline/pkg/tracing"
	"github.com/wayline/wayline/pkg/tracing/exporters"
)

const version = "1.0.0"

// application holds the long-lived resources the startup dependencies build
// and tear down.
type application struct {
	cfg    config.Config
	logger ectologger.Logger

	tracerProvider *sdktrace.TracerProvider
	db             database.DB
	redisClient    *redis.Client
	producer       *kafka.Producer
	server         *echo.Echo
	checker        *health.Checker
}

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, flush, err := logging.New(cfg.AppName, cfg.PrettyLogs)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &application{cfg: cfg, logger: logger}

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&tracingDependency{app})
	boot.AddDependency(&databaseDependency{app})
	boot.AddDependency(&redisDependency{app})
	boot.AddDependency(&kafkaDependency{app})
	boot.AddDependency(&serverDependency{app})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Errorf("%s failed to start", cfg.AppName)
		os.Exit(1)
	}

	logger.Infof("%s %s listening on port %d", cfg.AppName, version, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown did not complete cleanly")
	}
}

// tracingDependency installs the OTLP tracer when enabled; tracing stays a
// no-op otherwise.
type tracingDependency struct {
	app *application
}

func (d *tracingDependency) GetName() string     { return "tracing" }
func (d *tracingDependency) DependsOn() []string { return nil }

func (d *tracingDependency) Start(ctx context.Context) error {
	cfg := d.app.cfg
	if !cfg.TracingEnabled {
		return nil
	}

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingEndpoint,
		Protocol: cfg.TracingProtocol,
		Insecure: cfg.TracingInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	d.app.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	tracing.SetTracer(d.app.tracerProvider.Tracer(cfg.AppName))
	return nil
}

func (d *tracingDependency) Stop(ctx context.Context) error {
	if d.app.tracerProvider == nil {
		return nil
	}
	return d.app.tracerProvider.Shutdown(ctx)
}

type databaseDependency struct {
	app *application
}

func (d *databaseDependency) GetName() string     { return "database" }
func (d *databaseDependency) DependsOn() []string { return nil }

func (d *databaseDependency) Start(ctx context.Context) error {
	cfg := d.app.cfg

	port, err := strconv.Atoi(cfg.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port %q: %w", cfg.DatabasePort, err)
	}

	db, err := database.Connect(ctx, database.ConnectConfig{
		Driver:          cfg.DatabaseDriver,
		Host:            cfg.DatabaseHost,
		Port:            port,
		User:            cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, d.app.logger)
	if err != nil {
		return err
	}
	d.app.db = db

	driver, err := migratepg.WithInstance(db.Unsafe().DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrations := database.NewMigrationService(d.app.logger, cfg.DatabaseMigrationFolderPath)
	return migrations.Migrate(cfg.DatabaseName, driver)
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	if d.app.db == nil {
		return nil
	}
	return d.app.db.Close()
}

type redisDependency struct {
	app *application
}

func (d *redisDependency) GetName() string     { return "redis" }
func (d *redisDependency) DependsOn() []string { return nil }

func (d *redisDependency) Start(ctx context.Context) error {
	if !d.app.cfg.CacheEnabled {
		return nil
	}

	client, err := redis.NewClient(redis.Config{
		Host:     d.app.cfg.RedisHost,
		Port:     d.app.cfg.RedisPort,
		Password: d.app.cfg.RedisPassword,
		DB:       d.app.cfg.RedisDB,
	}, d.app.logger)
	if err != nil {
		return err
	}
	d.app.redisClient = client
	return nil
}

func (d *redisDependency) Stop(ctx context.Context) error {
	if d.app.redisClient == nil {
		return nil
	}
	return d.app.redisClient.Close()
}

type kafkaDependency struct {
	app *application
}

func (d *kafkaDependency) GetName() string     { return "kafka" }
func (d *kafkaDependency) DependsOn() []string { return nil }

func (d *kafkaDependency) Start(ctx context.Context) error {
	if !d.app.cfg.KafkaEventsEnabled {
		return nil
	}

	d.app.producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers: d.app.cfg.KafkaBrokers,
		Topic:   d.app.cfg.KafkaEventTopic,
	}, d.app.logger)
	return nil
}

func (d *kafkaDependency) Stop(ctx context.Context) error {
	if d.app.producer == nil {
		return nil
	}
	return d.app.producer.Close()
}

// serverDependency assembles the pipeline, registers it for injection and
// serves HTTP. It comes up last so readiness implies a working pipeline.
type serverDependency struct {
	app *application
}

func (d *serverDependency) GetName() string { return "server" }
func (d *serverDependency) DependsOn() []string {
	return []string{"tracing", "database", "redis", "kafka"}
}

func (d *serverDependency) Start(ctx context.Context) error {
	app := d.app
	cfg := app.cfg

	service := buildService(app)

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return fmt.Errorf("failed to create DI container: %w", err)
	}
	if err := ectoinject.RegisterInstance[*planner.Service](container, service); err != nil {
		return fmt.Errorf("failed to register planner service: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.HTTPErrorHandler = middleware.Error(app.logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(app.logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	app.checker = health.NewChecker(app.db, app.redisClient, version)
	app.checker.RegisterRoutes(e)

	plan.Register(e.Group("/api/v1/plans"))

	app.server = e

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			app.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()

	app.checker.SetReady(true)
	return nil
}

func (d *serverDependency) Stop(ctx context.Context) error {
	if d.app.server == nil {
		return nil
	}
	if d.app.checker != nil {
		d.app.checker.SetReady(false)
	}
	return d.app.server.Shutdown(ctx)
}

// buildService wires the plan pipeline from configuration. Categories without
// a configured provider URL fall back to synthetic data.
func buildService(app *application) *planner.Service {
	cfg := app.cfg
	logger := app.logger

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.ProviderTimeout
	client := httpclient.NewClient(httpCfg, logger)

	var clients []providers.Client
	for cat, baseURL := range map[models.Category]string{
		models.CategoryFlight:     cfg.FlightProviderURL,
		models.CategoryLodging:    cfg.LodgingProviderURL,
		models.CategoryActivities: cfg.ActivityProviderURL,
		models.CategoryWeather:    cfg.WeatherProviderURL,
	} {
		if baseURL == "" {
			clients = append(clients, providers.NewSyntheticProvider(cat, logger))
			continue
		}
		clients = append(clients, providers.NewHTTPProvider(string(cat)+"-api", cat, baseURL, cfg.ProviderAPIKey, client, logger))
	}

	fetcher := fetch.NewFetcher(providers.NewRegistry(clients...), fetch.Config{
		Timeout: cfg.ProviderTimeout,
		Retry: fetch.RetryConfig{
			MaxRetries:   cfg.ProviderMaxRetries,
			InitialDelay: cfg.ProviderRetryDelay,
			MaxDelay:     cfg.ProviderMaxDelay,
		},
		SyntheticFallback: cfg.FallbackSynthetic,
	}, logger)

	normalizer := normalize.NewNormalizer(expressions.NewEvaluator(), logger)

	pairer := pairing.NewPairer(fetcher, normalizer, pairing.Config{
		SameCarrierTolerance: cfg.PairingSameCarrierTolerance,
		PriceWeight:          cfg.PairingPriceWeight,
		DurationWeight:       cfg.PairingDurationWeight,
	}, logger)

	allocator := budget.NewAllocator(budget.Weights{
		Transport:  cfg.BudgetWeightTransport,
		Lodging:    cfg.BudgetWeightLodging,
		Activities: cfg.BudgetWeightActivities,
		Food:       cfg.BudgetWeightFood,
		Misc:       cfg.BudgetWeightMisc,
	}, cfg.BudgetRelaxationFactor, cfg.BudgetReallocationEnabled, logger)

	opt := optimizer.NewOptimizer(allocator, optimizer.ScoreWeights{
		Price:   cfg.ScoreWeightPrice,
		Quality: cfg.ScoreWeightQuality,
		Fit:     cfg.ScoreWeightFit,
	}, cfg.MaxActivitiesPerDay, logger)

	consolidator := consolidate.NewConsolidator(logger)

	var planCache *cache.PlanCache
	if app.redisClient != nil {
		planCache = cache.NewPlanCache(app.redisClient, cfg.CacheTTL, logger)
	}

	var emitter *events.Emitter
	if app.producer != nil {
		emitter = events.NewEmitter(app.producer, logger)
	}

	repo := planrepo.NewRepository(app.db, logger)

	return planner.NewService(fetcher, normalizer, pairer, opt, consolidator, planCache, repo, emitter, logger)
}
