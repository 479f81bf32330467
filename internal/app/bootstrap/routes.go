// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	activityfeature "github.com/filedock/filedock/internal/app/features/activity"
	browsefeature "github.com/filedock/filedock/internal/app/features/browse"
	filesfeature "github.com/filedock/filedock/internal/app/features/files"
	grantsfeature "github.com/filedock/filedock/internal/app/features/grants"
	healthfeature "github.com/filedock/filedock/internal/app/features/health"
	loginfeature "github.com/filedock/filedock/internal/app/features/login"
	logoutfeature "github.com/filedock/filedock/internal/app/features/logout"
	reviewsfeature "github.com/filedock/filedock/internal/app/features/reviews"
	sharelinksfeature "github.com/filedock/filedock/internal/app/features/sharelinks"
	systemusersfeature "github.com/filedock/filedock/internal/app/features/systemusers"
	teamsfeature "github.com/filedock/filedock/internal/app/features/teams"
	trashfeature "github.com/filedock/filedock/internal/app/features/trash"
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	activitystore "github.com/filedock/filedock/internal/app/store/activity"
	grantstore "github.com/filedock/filedock/internal/app/store/grants"
	reviewstore "github.com/filedock/filedock/internal/app/store/reviews"
	sharelinkstore "github.com/filedock/filedock/internal/app/store/sharelinks"
	teamstore "github.com/filedock/filedock/internal/app/store/teams"
	trashstore "github.com/filedock/filedock/internal/app/store/trash"
	userstore "github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"github.com/filedock/filedock/internal/app/system/tasks"
	"github.com/filedock/filedock/internal/app/system/workers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maintenance is the background job runner. Created in BuildHandler,
// stopped in Shutdown.
var maintenance *workers.Runner

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. FileDock wires the stores, the
// access resolver, and the feature routers here, and starts the
// background maintenance runner.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores over the metadata database.
	users := userstore.New(deps.MongoDatabase)
	teams := teamstore.New(deps.MongoDatabase)
	grants := grantstore.New(deps.MongoDatabase)
	reviews := reviewstore.New(deps.MongoDatabase)
	trash := trashstore.New(deps.MongoDatabase)
	links := sharelinkstore.New(deps.MongoDatabase)
	activity := activitystore.New(deps.MongoDatabase)

	objects := objstore.New(deps.ObjectClient, appCfg.StorageBucket, logger)
	audit := auditlog.New(activity, logger)

	// The access resolver sits behind every file operation. The
	// principal cache is short-lived; permission-mutating handlers
	// invalidate it explicitly.
	var resolverOpts []accesspolicy.Option
	if appCfg.ResolverCacheTTL > 0 {
		resolverOpts = append(resolverOpts, accesspolicy.WithCache(accesspolicy.NewCache(appCfg.ResolverCacheTTL)))
	}
	resolver := accesspolicy.New(users, grants, logger, resolverOpts...)

	// Background maintenance: reclaim expired grants and links, purge
	// old trash, prune the activity feed.
	maintenance = workers.NewRunner(logger,
		tasks.GrantSweepJob(grants, logger, appCfg.GrantSweepInterval),
		tasks.ShareLinkCleanupJob(links, logger, appCfg.LinkSweepInterval),
		tasks.TrashPurgeJob(trash, objects, logger, appCfg.TrashPurgeInterval, appCfg.TrashRetention),
		tasks.ActivityPruneJob(activity, logger, appCfg.ActivityPruneInterval, appCfg.ActivityRetention),
	)
	maintenance.Start()

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making the current user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, objects, logger)
	r.Mount("/", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Authentication.
	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/session", logoutfeature.Routes(logoutHandler))

	// Browsing and file operations.
	browseHandler := browsefeature.NewHandler(objects, resolver, logger)
	r.Mount("/browse", browsefeature.Routes(browseHandler, sessionMgr))

	filesHandler := filesfeature.NewHandler(objects, resolver, trash, audit, logger)
	r.Mount("/files", filesfeature.Routes(filesHandler, sessionMgr))

	// Grants and sharing.
	grantsHandler := grantsfeature.NewHandler(grants, users, teams, resolver, audit, logger)
	r.Mount("/grants", grantsfeature.Routes(grantsHandler, sessionMgr))

	sharelinksHandler := sharelinksfeature.NewHandler(links, objects, resolver, audit, logger)
	r.Mount("/share", sharelinksfeature.Routes(sharelinksHandler, sessionMgr))
	r.Mount("/s", sharelinksfeature.PublicRoutes(sharelinksHandler))

	// Reviews.
	reviewsHandler := reviewsfeature.NewHandler(reviews, resolver, audit, logger)
	r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler, sessionMgr))

	// Administration.
	teamsHandler := teamsfeature.NewHandler(teams, resolver, audit, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler, sessionMgr))

	sysUsersHandler := systemusersfeature.NewHandler(users, resolver, audit, logger)
	r.Mount("/users", systemusersfeature.Routes(sysUsersHandler, sessionMgr))

	trashHandler := trashfeature.NewHandler(objects, trash, audit, logger)
	r.Mount("/trash", trashfeature.Routes(trashHandler, sessionMgr))

	activityHandler := activityfeature.NewHandler(activity, logger)
	r.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))

	return r, nil
}
