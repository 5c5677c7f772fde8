// Package mongo stores layout snapshots in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/storage"
)

// Defaults for database and collection names.
const (
	DefaultDatabase   = "epicflow"
	DefaultCollection = "snapshots"
)

const connectTimeout = 10 * time.Second

// Store is a MongoDB-backed [storage.Store]. Documents are [storage.Snapshot]
// values keyed by their UUID.
type Store struct {
	client *mongo.Client // nil when the collection was supplied by the caller
	coll   *mongo.Collection
}

// Option configures New.
type Option func(*config)

type config struct {
	database   string
	collection string
}

// WithDatabase overrides the database name.
func WithDatabase(name string) Option { return func(c *config) { c.database = name } }

// WithCollection overrides the collection name.
func WithCollection(name string) Option { return func(c *config) { c.collection = name } }

// New connects to the MongoDB deployment at uri, verifies it with a ping
// and ensures the lookup index exists.
func New(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	cfg := config{database: DefaultDatabase, collection: DefaultCollection}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, coll: client.Database(cfg.database).Collection(cfg.collection)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewFromCollection wraps an existing collection. Close does not disconnect
// the caller's client.
func NewFromCollection(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes creates the index used by Latest.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner", Value: 1},
			{Key: "repo", Value: 1},
			{Key: "number", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("epic_latest"),
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Save implements [storage.Store].
func (s *Store) Save(ctx context.Context, l graph.Layout, epicHash string) (string, error) {
	snap := storage.NewSnapshot(l, epicHash)
	if _, err := s.coll.InsertOne(ctx, snap); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return snap.ID, nil
}

// Load implements [storage.Store].
func (s *Store) Load(ctx context.Context, id string) (*storage.Snapshot, error) {
	if err := storage.ValidateID(id); err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": id}, nil, "snapshot "+id)
}

// Latest implements [storage.Store]. Owner and repo match case-insensitively.
func (s *Store) Latest(ctx context.Context, owner, repo string, number int) (*storage.Snapshot, error) {
	filter := bson.M{
		"owner":  exactFold(owner),
		"repo":   exactFold(repo),
		"number": number,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findOne(ctx, filter, opts, fmt.Sprintf("no snapshot of %s/%s#%d", owner, repo, number))
}

func (s *Store) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions, what string) (*storage.Snapshot, error) {
	var findOpts []*options.FindOneOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	var snap storage.Snapshot
	err := s.coll.FindOne(ctx, filter, findOpts...).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.NotFound("%s", what)
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return &snap, nil
}

// Close implements [storage.Store].
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ storage.Store = (*Store)(nil)

// exactFold matches s exactly, ignoring case.
func exactFold(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}
