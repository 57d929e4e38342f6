package db

import (
	"context"
	"errors"
	"fmt"

	"tourism_portal_backend/platform/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Server error codes returned when an index cannot be built as declared.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// Index describes a single-field ascending index.
type Index struct {
	Collection string
	Field      string
	// Name overrides the default "<field>_1". Indexes whose options differ
	// from one an older deployment created on the same key need their own
	// name, otherwise the server reports an options conflict.
	Name   string
	Unique bool
	// CaseInsensitive builds the index with a strength 2 collation so that
	// unique values differing only in case collide.
	CaseInsensitive bool
}

func (idx Index) name() string {
	if idx.Name != "" {
		return idx.Name
	}
	return idx.Field + "_1"
}

func (idx Index) model() mongo.IndexModel {
	opts := options.Index().SetName(idx.name()).SetUnique(idx.Unique)
	if idx.CaseInsensitive {
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: idx.Field, Value: 1}},
		Options: opts,
	}
}

// EnsureIndexes creates any missing index. Creating an index that already
// exists with the same options is a no-op on the server.
//
// An index that conflicts with an existing one, or a unique index the stored
// documents already violate, is logged and skipped so the API still starts
// against a legacy data set. Uniqueness is then enforced by the signup check
// alone until the data is cleaned up.
func EnsureIndexes(ctx context.Context, database *mongo.Database, indexes []Index, log *logger.Logger) error {
	for _, idx := range indexes {
		_, err := database.Collection(idx.Collection).Indexes().CreateOne(ctx, idx.model())
		if err == nil {
			continue
		}
		if isIndexConflict(err) {
			log.Warn("index skipped",
				"collection", idx.Collection,
				"index", idx.name(),
				"error", err,
			)
			continue
		}
		return fmt.Errorf("create index %s.%s: %w", idx.Collection, idx.name(), err)
	}
	return nil
}

// isIndexConflict reports whether err means the index clashes with existing
// indexes or data rather than an unreachable server.
func isIndexConflict(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict
	}
	return false
}
