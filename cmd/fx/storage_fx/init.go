package storage_fx

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"astrocrm/internal/config"
	"astrocrm/internal/infra"
	"astrocrm/internal/storage"
)

var Module = fx.Provide(provideMongo, provideBlobStore)

func provideMongo(lc fx.Lifecycle, cfg config.MongoConfig, log *logrus.Logger) (*mongo.Client, error) {
	client, err := infra.InitMongo(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.CloseMongo(ctx, client, log)
			return nil
		},
	})
	return client, nil
}

func provideBlobStore(client *mongo.Client, cfg config.MongoConfig) (storage.BlobStore, error) {
	return storage.NewGridFSStore(client.Database(cfg.Database), cfg.Bucket)
}
