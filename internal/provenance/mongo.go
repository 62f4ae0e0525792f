package provenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"dwcexport/internal/config"
	"dwcexport/internal/logging"
)

// emlRecord is one document in the eml collection.
type emlRecord struct {
	Identifier string    `bson:"identifier"`
	Document   string    `bson:"document"`
	Updated    time.Time `bson:"updated,omitempty"`
}

// Mongo reads eml documents from a MongoDB collection keyed by provider identifier.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongo connects to the collection named in cfg. The driver connects
// lazily; use Ping to verify the server answers.
func NewMongo(ctx context.Context, cfg config.Mongo, logger *slog.Logger) (*Mongo, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("mongo uri is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "provenance")

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	logger.Debug("mongo provenance source ready",
		logging.String("database", cfg.Database),
		logging.String("collection", cfg.Collection),
	)
	return &Mongo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
	}, nil
}

// Document implements Source.
func (m *Mongo) Document(ctx context.Context, identifier string) ([]byte, error) {
	var rec emlRecord
	err := m.collection.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find eml for %s: %w", identifier, err)
	}
	if rec.Document == "" {
		m.logger.Debug("eml record without document", logging.String(logging.FieldProvider, identifier))
		return nil, nil
	}
	return []byte(rec.Document), nil
}

// Put upserts the document for identifier.
func (m *Mongo) Put(ctx context.Context, identifier string, doc []byte) error {
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"identifier": identifier},
		emlRecord{Identifier: identifier, Document: string(doc), Updated: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("store eml for %s: %w", identifier, err)
	}
	return nil
}

// Ping verifies the server answers within ten seconds.
func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

// Close implements Source.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
