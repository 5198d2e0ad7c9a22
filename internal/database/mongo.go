package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deckgen/internal/config"
)

// MongoDriver stores decks in two collections of Database. Transactions
// need a replica set.
type MongoDriver struct {
	Database string
	client   *mongo.Client
}

func (md *MongoDriver) Connect(dsn string) error {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(dsn))
	if err != nil {
		return err
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}
	md.client = client
	return nil
}

func (md *MongoDriver) Close() error {
	return md.client.Disconnect(context.Background())
}

func (md *MongoDriver) database() string {
	if md.Database == "" {
		return config.DefaultMongoDatabase
	}
	return md.Database
}

func (md *MongoDriver) Reset(ctx context.Context) error {
	db := md.client.Database(md.database())
	if err := db.Collection(rowsCollection).Drop(ctx); err != nil {
		return err
	}
	return db.Collection(decksCollection).Drop(ctx)
}

func (md *MongoDriver) ExecuteTx(ctx context.Context, txFunc func(interface{}) error) error {
	session, err := md.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := txFunc(sessCtx); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}
