package config

const (
	EnvDotEnvFile = "DOTENV_FILE"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
	EnvTimezone  = "TIMEZONE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvRateLimitBurst    = "RATE_LIMIT_BURST"

	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvRedisAddr      = "REDIS_ADDR"
	EnvRedisPassword  = "REDIS_PASSWORD"
	EnvRedisDB        = "REDIS_DB"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvStoreBackend      = "STORE_BACKEND"
	EnvDataDir           = "DATA_DIR"
	EnvBadgerDir         = "BADGER_DIR"
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvStoreReadTimeout  = "STORE_READ_TIMEOUT"
	EnvStoreWriteTimeout = "STORE_WRITE_TIMEOUT"

	EnvSweepInterval     = "SWEEP_INTERVAL"
	EnvSweepStartupDelay = "SWEEP_STARTUP_DELAY"
	EnvExpiryCutoff      = "SLOT_EXPIRY_CUTOFF"

	EnvNotificationWorkers   = "NOTIFICATION_WORKERS"
	EnvNotificationQueueSize = "NOTIFICATION_QUEUE_SIZE"
	EnvNotificationTimeout   = "NOTIFICATION_TIMEOUT"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvSMTPFrom     = "SMTP_FROM"

	EnvSMSProvider      = "SMS_PROVIDER"
	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFrom       = "TWILIO_FROM_NUMBER"
	EnvSMSWebhookURL    = "SMS_WEBHOOK_URL"
	EnvSMSWebhookToken  = "SMS_WEBHOOK_TOKEN"

	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"
	EnvAdminBaseURL       = "ADMIN_BASE_URL"

	EnvBusinessName       = "BUSINESS_NAME"
	EnvBusinessPhone      = "BUSINESS_PHONE"
	EnvBusinessEmail      = "BUSINESS_EMAIL"
	EnvBusinessAddress    = "BUSINESS_ADDRESS"
	EnvEmailNotifications = "EMAIL_NOTIFICATIONS"
	EnvSMSNotifications   = "SMS_NOTIFICATIONS"
)
