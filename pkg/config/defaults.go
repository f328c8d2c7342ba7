package config

import "time"

const (
	StoreFile   = "file"
	StoreBadger = "badger"
	StoreMongo  = "mongo"

	SMSProviderLog     = "log"
	SMSProviderTwilio  = "twilio"
	SMSProviderWebhook = "webhook"
)

const (
	DefaultDotEnvFile = ".env"

	DefaultPort      = "3001"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultTimezone  = "Local"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultMaxRequestSize  = 64 * 1024

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute
	DefaultRateLimitBurst    = 10

	DefaultIdempotencyTTL = 24 * time.Hour

	DefaultStoreBackend      = StoreFile
	DefaultDataDir           = "data"
	DefaultBadgerDir         = "data/badger"
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rendezvous"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultStoreReadTimeout  = 5 * time.Second
	DefaultStoreWriteTimeout = 5 * time.Second

	DefaultSweepInterval     = 60 * time.Minute
	DefaultSweepStartupDelay = 5 * time.Second
	DefaultExpiryCutoff      = 5 * time.Hour

	DefaultNotificationWorkers   = 2
	DefaultNotificationQueueSize = 100
	DefaultNotificationTimeout   = 30 * time.Second

	DefaultSMTPPort = 587

	DefaultSMSProvider        = SMSProviderLog
	DefaultDefaultPhoneRegion = "FR"
	DefaultAdminBaseURL       = "http://localhost:3000"

	DefaultBusinessName       = "Mon Entreprise"
	DefaultEmailNotifications = true
	DefaultSMSNotifications   = true
)

var DefaultCORSAllowedOrigins = []string{"*"}
