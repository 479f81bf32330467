// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// FileDock makes sure the bucket exists and seeds the initial admin
// account when one is configured.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	objects := objstore.New(deps.ObjectClient, appCfg.StorageBucket, logger)
	if err := objects.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	if appCfg.AdminUsername != "" && appCfg.AdminPassword != "" {
		if err := seedAdmin(ctx, deps, appCfg, logger); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	_, found, err := users.GetByUsername(ctx, appCfg.AdminUsername)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = users.Create(ctx, &models.User{
		Username:     appCfg.AdminUsername,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	logger.Info("created initial admin user", zap.String("username", appCfg.AdminUsername))
	return nil
}
