package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	kafka_config "rendezvous/pkg/kafka/config"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"

	"github.com/joho/godotenv"
	"github.com/nyaruka/phonenumbers"
)

type Config struct {
	Port     string
	Location *time.Location

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	MaxRequestSize  int

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int

	IdempotencyTTL time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	CORSAllowedOrigins []string

	StoreBackend      string
	DataDir           string
	BadgerDir         string
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	StoreReadTimeout  time.Duration
	StoreWriteTimeout time.Duration

	SweepInterval     time.Duration
	SweepStartupDelay time.Duration
	ExpiryCutoff      time.Duration

	NotificationWorkers   int
	NotificationQueueSize int
	NotificationTimeout   time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	SMSProvider      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	SMSWebhookURL    string
	SMSWebhookToken  string

	DefaultPhoneRegion string
	// AdminBaseURL is the public site root; admin links are <root>/admin/<token>.
	AdminBaseURL string

	// SeedSettings is written to the settings collection when it does not exist yet.
	SeedSettings model.Settings

	Kafka *kafka_config.Config
	Log   *logger.Logger
}

// Load reads the optional .env file, then the environment. It exits the process
// on invalid configuration.
func Load(serviceName string) *Config {
	dotenvErr := loadDotEnv()

	cfg, err := FromEnv()

	level := getEnvStr(EnvLogLevel, DefaultLogLevel)
	log := logger.New(logger.Config{
		Level:     level,
		Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
		AddSource: true,
		Service:   serviceName,
	})
	if _, levelErr := logger.ParseLevel(level); levelErr != nil {
		log.Warn("Falling back to info logging", "error", levelErr)
	}
	if dotenvErr != nil {
		log.Warn("Failed to load .env file", "error", dotenvErr)
	}
	if err != nil {
		log.Fatal(err.Error())
	}

	cfg.Log = log
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds and validates a Config without a logger.
func FromEnv() (*Config, error) {
	kafkaCfg, kafkaErr := kafka_config.Load()

	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize:  getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		RateLimitBurst:    getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		RedisAddr:      getEnvStr(EnvRedisAddr, ""),
		RedisPassword:  getEnvStr(EnvRedisPassword, ""),
		RedisDB:        getEnvNum(EnvRedisDB, 0),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		StoreBackend:      strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),
		DataDir:           getEnvStr(EnvDataDir, DefaultDataDir),
		BadgerDir:         getEnvStr(EnvBadgerDir, DefaultBadgerDir),
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		StoreReadTimeout:  getEnvDuration(EnvStoreReadTimeout, DefaultStoreReadTimeout),
		StoreWriteTimeout: getEnvDuration(EnvStoreWriteTimeout, DefaultStoreWriteTimeout),

		SweepInterval:     getEnvDuration(EnvSweepInterval, DefaultSweepInterval),
		SweepStartupDelay: getEnvDuration(EnvSweepStartupDelay, DefaultSweepStartupDelay),
		ExpiryCutoff:      getEnvDuration(EnvExpiryCutoff, DefaultExpiryCutoff),

		NotificationWorkers:   getEnvNum(EnvNotificationWorkers, DefaultNotificationWorkers),
		NotificationQueueSize: getEnvNum(EnvNotificationQueueSize, DefaultNotificationQueueSize),
		NotificationTimeout:   getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),

		SMTPHost:     getEnvStr(EnvSMTPHost, ""),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: getEnvStr(EnvSMTPUsername, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SMTPFrom:     getEnvStr(EnvSMTPFrom, ""),

		SMSProvider:      strings.ToLower(getEnvStr(EnvSMSProvider, DefaultSMSProvider)),
		TwilioAccountSID: getEnvStr(EnvTwilioAccountSID, ""),
		TwilioAuthToken:  getEnvStr(EnvTwilioAuthToken, ""),
		TwilioFrom:       getEnvStr(EnvTwilioFrom, ""),
		SMSWebhookURL:    getEnvStr(EnvSMSWebhookURL, ""),
		SMSWebhookToken:  getEnvStr(EnvSMSWebhookToken, ""),

		DefaultPhoneRegion: strings.ToUpper(getEnvStr(EnvDefaultPhoneRegion, DefaultDefaultPhoneRegion)),
		AdminBaseURL:       strings.TrimRight(getEnvStr(EnvAdminBaseURL, DefaultAdminBaseURL), "/"),

		SeedSettings: model.Settings{
			BusinessName:       getEnvStr(EnvBusinessName, DefaultBusinessName),
			BusinessPhone:      getEnvStr(EnvBusinessPhone, ""),
			BusinessEmail:      getEnvStr(EnvBusinessEmail, ""),
			BusinessAddress:    getEnvStr(EnvBusinessAddress, ""),
			EmailNotifications: getEnvBool(EnvEmailNotifications, DefaultEmailNotifications),
			SMSNotifications:   getEnvBool(EnvSMSNotifications, DefaultSMSNotifications),
		},

		Kafka: kafkaCfg,
	}

	loc, locErr := time.LoadLocation(getEnvStr(EnvTimezone, DefaultTimezone))
	cfg.Location = loc

	if err := errors.Join(kafkaErr, locErr, cfg.Validate()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	path := getEnvStr(EnvDotEnvFile, DefaultDotEnvFile)
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"SweepInterval", cfg.SweepInterval},
		{"NotificationTimeout", cfg.NotificationTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", p.name, p.value))
		}
	}

	if cfg.SweepStartupDelay < 0 {
		errors = append(errors, fmt.Sprintf("SweepStartupDelay cannot be negative, got: %s", cfg.SweepStartupDelay))
	}
	if cfg.ExpiryCutoff < 0 {
		errors = append(errors, fmt.Sprintf("ExpiryCutoff cannot be negative, got: %s", cfg.ExpiryCutoff))
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitBurst <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.NotificationWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationWorkers must be positive, got: %d", cfg.NotificationWorkers))
	}
	if cfg.NotificationQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationQueueSize must be positive, got: %d", cfg.NotificationQueueSize))
	}

	switch cfg.StoreBackend {
	case StoreFile:
		if cfg.DataDir == "" {
			errors = append(errors, "DataDir cannot be empty with the file store")
		}
	case StoreBadger:
		if cfg.BadgerDir == "" {
			errors = append(errors, "BadgerDir cannot be empty with the badger store")
		}
	case StoreMongo:
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of [file, badger, mongo], got: %s", cfg.StoreBackend))
	}

	if cfg.SMTPHost != "" {
		if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
			errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
		}
		if cfg.SMTPFrom == "" {
			errors = append(errors, "SMTPFrom is required when SMTPHost is set")
		}
	}

	switch cfg.SMSProvider {
	case SMSProviderLog:
	case SMSProviderTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
			errors = append(errors, "TwilioAccountSID, TwilioAuthToken and TwilioFrom are required with the twilio SMS provider")
		}
	case SMSProviderWebhook:
		if u, err := url.Parse(cfg.SMSWebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("SMSWebhookURL must be an absolute URL, got: %q", cfg.SMSWebhookURL))
		}
	default:
		errors = append(errors, fmt.Sprintf("SMSProvider must be one of [log, twilio, webhook], got: %s", cfg.SMSProvider))
	}

	if !isSupportedRegion(cfg.DefaultPhoneRegion) {
		errors = append(errors, fmt.Sprintf("DefaultPhoneRegion must be an ISO 3166 region code, got: %s", cfg.DefaultPhoneRegion))
	}
	if u, err := url.Parse(cfg.AdminBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("AdminBaseURL must be an absolute URL, got: %q", cfg.AdminBaseURL))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"timezone", cfg.Location.String(),
		"store_backend", cfg.StoreBackend,
		"data_dir", cfg.DataDir,
		"badger_dir", cfg.BadgerDir,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"redis_addr", cfg.RedisAddr,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"rate_limit_burst", cfg.RateLimitBurst,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"sweep_interval", cfg.SweepInterval,
		"sweep_startup_delay", cfg.SweepStartupDelay,
		"expiry_cutoff", cfg.ExpiryCutoff,
		"notification_workers", cfg.NotificationWorkers,
		"smtp_configured", cfg.SMTPHost != "",
		"sms_provider", cfg.SMSProvider,
		"default_phone_region", cfg.DefaultPhoneRegion,
		"admin_base_url", cfg.AdminBaseURL,
	)
	cfg.Kafka.LogConfiguration(cfg.Log.Info)
}

func isSupportedRegion(region string) bool {
	return phonenumbers.GetCountryCodeForRegion(region) != 0
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
