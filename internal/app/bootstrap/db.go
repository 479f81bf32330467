// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB and object store connections.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	objClient, err := objstore.Connect(appCfg.StorageEndpoint, appCfg.StorageAccessKey, appCfg.StorageSecretKey, appCfg.StorageRegion, appCfg.StorageUseSSL)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("object store connect: %w", err)
	}
	logger.Info("object store client ready", zap.String("endpoint", appCfg.StorageEndpoint))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		ObjectClient:  objClient,
	}, nil
}

// EnsureSchema creates the indexes the stores depend on. All creations
// are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexSpec struct {
		collection string
		models     []mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)

	specs := []indexSpec{
		{"users", []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		}},
		{"team_memberships", []mongo.IndexModel{
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: 1}}},
		}},
		{"file_grants", []mongo.IndexModel{
			{Keys: bson.D{{Key: "file_path", Value: 1}, {Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		}},
		{"share_links", []mongo.IndexModel{
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
		}},
		{"reviews", []mongo.IndexModel{
			{Keys: bson.D{{Key: "file_path", Value: 1}, {Key: "created_at", Value: -1}}},
		}},
		{"activity", []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		}},
		{"trash", []mongo.IndexModel{
			{Keys: bson.D{{Key: "deleted_at", Value: 1}}},
		}},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
	}

	logger.Info("schema ensured")
	return nil
}
