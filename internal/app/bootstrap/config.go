// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for FileDock.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: FILEDOCK_MONGO_URI, FILEDOCK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "filedock", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "filedock-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Object store configuration
	{Name: "storage_endpoint", Default: "localhost:9000", Desc: "S3-compatible endpoint (host:port)"},
	{Name: "storage_access_key", Default: "", Desc: "Object store access key"},
	{Name: "storage_secret_key", Default: "", Desc: "Object store secret key"},
	{Name: "storage_region", Default: "", Desc: "Object store region"},
	{Name: "storage_bucket", Default: "filedock", Desc: "Bucket holding managed files"},
	{Name: "storage_use_ssl", Default: false, Desc: "Use TLS for the object store"},

	// Background maintenance
	{Name: "grant_sweep_interval", Default: "1h", Desc: "How often expired file grants are reclaimed"},
	{Name: "link_sweep_interval", Default: "1h", Desc: "How often expired share links are reclaimed"},
	{Name: "trash_purge_interval", Default: "24h", Desc: "How often old trash is purged"},
	{Name: "trash_retention", Default: "720h", Desc: "How long trashed files are kept (default 30 days)"},
	{Name: "activity_prune_interval", Default: "24h", Desc: "How often the activity feed is pruned"},
	{Name: "activity_retention", Default: "2160h", Desc: "How long activity entries are kept (default 90 days)"},

	// Access resolver
	{Name: "resolver_cache_ttl", Default: "10s", Desc: "Principal cache TTL for the access resolver (0 disables)"},

	// Initial admin bootstrap
	{Name: "admin_username", Default: "", Desc: "Username of the initial admin (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Password for the initial admin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FILEDOCK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FILEDOCK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		StorageEndpoint:  appValues.String("storage_endpoint"),
		StorageAccessKey: appValues.String("storage_access_key"),
		StorageSecretKey: appValues.String("storage_secret_key"),
		StorageRegion:    appValues.String("storage_region"),
		StorageBucket:    appValues.String("storage_bucket"),
		StorageUseSSL:    appValues.Bool("storage_use_ssl"),

		GrantSweepInterval:    appValues.Duration("grant_sweep_interval", time.Hour),
		LinkSweepInterval:     appValues.Duration("link_sweep_interval", time.Hour),
		TrashPurgeInterval:    appValues.Duration("trash_purge_interval", 24*time.Hour),
		TrashRetention:        appValues.Duration("trash_retention", 30*24*time.Hour),
		ActivityPruneInterval: appValues.Duration("activity_prune_interval", 24*time.Hour),
		ActivityRetention:     appValues.Duration("activity_retention", 90*24*time.Hour),

		ResolverCacheTTL: appValues.Duration("resolver_cache_ttl", 10*time.Second),

		AdminUsername: appValues.String("admin_username"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// FileDock validates the MongoDB URI format and the object store
// settings to catch configuration errors before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.StorageEndpoint == "" {
		return fmt.Errorf("storage_endpoint must be set")
	}
	if appCfg.StorageBucket == "" {
		return fmt.Errorf("storage_bucket must be set")
	}
	if appCfg.AdminPassword != "" && len(appCfg.AdminPassword) < 10 {
		return fmt.Errorf("admin_password must be at least 10 characters")
	}

	return nil
}
