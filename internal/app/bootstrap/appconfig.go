// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to FileDock lives: the metadata
// store, the object store, session cookies, background maintenance
// cadence, and the resolver cache.
type AppConfig struct {
	// MongoDB (metadata store) configuration
	MongoURI         string // connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies (must be strong in production)
	SessionName   string // cookie name for sessions (default: filedock-session)
	SessionDomain string // cookie domain (blank means current host)

	// Object store (S3-compatible) configuration
	StorageEndpoint  string // host:port of the S3-compatible endpoint
	StorageAccessKey string
	StorageSecretKey string
	StorageRegion    string
	StorageBucket    string // bucket holding all managed files
	StorageUseSSL    bool

	// Background maintenance cadence
	GrantSweepInterval    time.Duration // how often expired grants are reclaimed
	LinkSweepInterval     time.Duration // how often expired share links are reclaimed
	TrashPurgeInterval    time.Duration // how often old trash is purged
	TrashRetention        time.Duration // how long trashed files are kept
	ActivityPruneInterval time.Duration // how often the activity feed is pruned
	ActivityRetention     time.Duration // how long activity entries are kept

	// Resolver principal cache TTL. Zero disables the cache.
	ResolverCacheTTL time.Duration

	// Initial admin bootstrap. When both are set and the user does not
	// exist, Startup creates it with the admin role.
	AdminUsername string
	AdminPassword string
}
