// Package mongo provides MongoDB implementations of the domain repositories.
// The transaction journal lives here: an append-only trail of lifecycle
// transitions kept alongside the authoritative PostgreSQL records.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/momo-payment-gateway/internal/domain/journal"
)

const (
	// JournalCollectionName is the name of the journal collection in MongoDB
	JournalCollectionName = "transaction_journal"
)

// JournalRepository implements the journal.Repository interface for MongoDB
type JournalRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewJournalRepository creates a new MongoDB journal repository
func NewJournalRepository(logger *slog.Logger, db *mongo.Database) journal.Repository {
	return &JournalRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores a new journal entry. Entries are never updated or deleted.
func (r *JournalRepository) Append(ctx context.Context, entry *journal.Entry) error {
	collection := r.db.Collection(JournalCollectionName)

	_, err := collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to append journal entry",
			"transaction_id", entry.TransactionID.String(),
			"stage", string(entry.Stage),
			"error", err)
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves all journal entries for a transaction,
// oldest first so the lifecycle reads top to bottom.
func (r *JournalRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*journal.Entry, error) {
	collection := r.db.Collection(JournalCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	opts := options.Find().SetSort(bson.M{"at": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get journal entries",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get journal entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*journal.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode journal entries",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode journal entries: %w", err)
	}

	return entries, nil
}
