package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"wayline-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Tracing (OTLP export)
	TracingEnabled  bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingProtocol string `env:"TRACING_PROTOCOL" env-default:"grpc"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" env-default:"localhost:4317"`
	TracingInsecure bool   `env:"TRACING_INSECURE" env-default:"true"`

	// PostgreSQL (plan history)
	DatabaseDriver              string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                string        `env:"DB_HOST" env-default:"localhost"`
	DatabasePort                string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"wayline"`
	DatabaseSSLMode             string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion    int           `env:"DB_MIGRATION_VERSION" env-default:"0"`

	// Redis (itinerary result cache)
	RedisHost     string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	CacheEnabled  bool          `env:"CACHE_ENABLED" env-default:"true"`
	CacheTTL      time.Duration `env:"CACHE_TTL" env-default:"15m"`

	// Kafka (itinerary lifecycle events)
	KafkaBrokers       []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaEventTopic    string   `env:"KAFKA_EVENT_TOPIC" env-default:"itinerary-events"`
	KafkaEventsEnabled bool     `env:"KAFKA_EVENTS_ENABLED" env-default:"true"`

	// Provider endpoints. Each category is served by one configured provider;
	// the core only sees the providers.Client interface.
	FlightProviderURL   string        `env:"FLIGHT_PROVIDER_URL" env-default:""`
	LodgingProviderURL  string        `env:"LODGING_PROVIDER_URL" env-default:""`
	WeatherProviderURL  string        `env:"WEATHER_PROVIDER_URL" env-default:""`
	ActivityProviderURL string        `env:"ACTIVITY_PROVIDER_URL" env-default:""`
	ProviderAPIKey      string        `env:"PROVIDER_API_KEY" env-default:""`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" env-default:"20s"`
	ProviderMaxRetries  int           `env:"PROVIDER_MAX_RETRIES" env-default:"2"`
	ProviderRetryDelay  time.Duration `env:"PROVIDER_RETRY_DELAY" env-default:"500ms"`
	ProviderMaxDelay    time.Duration `env:"PROVIDER_MAX_DELAY" env-default:"8s"`
	FallbackSynthetic   bool          `env:"FALLBACK_SYNTHETIC" env-default:"true"`

	// Budget allocation weights. Advisory ceilings, not hard partitions; unused
	// budget in one category is not reallocated to another unless
	// BudgetReallocationEnabled is set (defaults off, matching the original
	// product behavior).
	BudgetWeightTransport     float64 `env:"BUDGET_WEIGHT_TRANSPORT" env-default:"0.30"`
	BudgetWeightLodging       float64 `env:"BUDGET_WEIGHT_LODGING" env-default:"0.35"`
	BudgetWeightActivities    float64 `env:"BUDGET_WEIGHT_ACTIVITIES" env-default:"0.20"`
	BudgetWeightFood          float64 `env:"BUDGET_WEIGHT_FOOD" env-default:"0.10"`
	BudgetWeightMisc          float64 `env:"BUDGET_WEIGHT_MISC" env-default:"0.05"`
	BudgetRelaxationFactor    float64 `env:"BUDGET_RELAXATION_FACTOR" env-default:"1.2"`
	BudgetReallocationEnabled bool    `env:"BUDGET_REALLOCATION_ENABLED" env-default:"false"`

	// Optimizer scoring weights
	ScoreWeightPrice   float64 `env:"SCORE_WEIGHT_PRICE" env-default:"0.5"`
	ScoreWeightQuality float64 `env:"SCORE_WEIGHT_QUALITY" env-default:"0.3"`
	ScoreWeightFit     float64 `env:"SCORE_WEIGHT_FIT" env-default:"0.2"`

	// Flight pairing
	PairingSameCarrierTolerance float64 `env:"PAIRING_SAME_CARRIER_TOLERANCE" env-default:"150"`
	PairingPriceWeight          float64 `env:"PAIRING_PRICE_WEIGHT" env-default:"0.6"`
	PairingDurationWeight       float64 `env:"PAIRING_DURATION_WEIGHT" env-default:"0.4"`

	// Consolidation
	MaxActivitiesPerDay int `env:"MAX_ACTIVITIES_PER_DAY" env-default:"2"`
}
