package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongorepo "github.com/yoockh/jobtrack/internal/repositories/mongo"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	apps := db.Collection(mongorepo.ApplicationsCollection)
	_, err := apps.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// one document per record id within a user's namespace
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().
				SetName("uniq_user_application").
				SetUnique(true),
		},
	})
	return err
}
