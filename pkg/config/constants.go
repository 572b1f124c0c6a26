package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "ATELIER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "ATELIER_APP_ENV"
	EnvPort                   = "ATELIER_APP_PORT"
	EnvDBDSN                  = "ATELIER_DB_DSN"
	EnvDBHost                 = "ATELIER_DB_HOST"
	EnvDBUser                 = "ATELIER_DB_USER"
	EnvDBName                 = "ATELIER_DB_NAME"
	EnvRedisURL               = "ATELIER_REDIS_URL"
	EnvJWTSecret              = "ATELIER_JWT_SECRET"
	EnvJWTIssuer              = "ATELIER_JWT_ISSUER"
	EnvJWTExpMins             = "ATELIER_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ATELIER_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "ATELIER_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic      = "ATELIER_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub        = "ATELIER_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubNotifyTopic      = "ATELIER_PUBSUB_NOTIFICATION_TOPIC"
	EnvPubSubNotifySub        = "ATELIER_PUBSUB_NOTIFICATION_SUBSCRIPTION"
	EnvWalletAccessToken      = "ATELIER_WALLET_ACCESS_TOKEN"
	EnvWalletEnv              = "ATELIER_WALLET_ENV"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
