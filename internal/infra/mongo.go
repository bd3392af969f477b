package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"astrocrm/internal/config"
)

// InitMongo connects to the database that holds the PDF bucket and verifies the connection.
func InitMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, nil
}

func CloseMongo(ctx context.Context, client *mongo.Client, log *logrus.Logger) {
	if err := client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Error closing mongo connection")
		return
	}
	log.Info("MongoDB connection closed successfully")
}
