package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns settings for a local MongoDB.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "starlake_docs",
		Collection: "prefs",
	}
}

// MongoStore keeps one document per client and view.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings and ensures the unique (client, view) index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	def := DefaultMongoConfig()
	if cfg.URI == "" {
		cfg.URI = def.URI
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.Collection == "" {
		cfg.Collection = def.Collection
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client", Value: 1}, {Key: "view", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create prefs index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func filter(client string, view View) bson.M {
	return bson.M{"client": client, "view": view}
}

func (s *MongoStore) Get(ctx context.Context, client string, view View) (*Pref, error) {
	var p Pref
	err := s.coll.FindOne(ctx, filter(client, view)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pref: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) Set(ctx context.Context, p *Pref) error {
	_, err := s.coll.ReplaceOne(ctx, filter(p.Client, p.View), p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store pref: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, client string, view View) error {
	if _, err := s.coll.DeleteOne(ctx, filter(client, view)); err != nil {
		return fmt.Errorf("delete pref: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
