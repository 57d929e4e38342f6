// Package docstore provides a typed gateway over MongoDB collections.
// This is part of the platform layer and contains no business logic.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "tourism_portal_backend/platform/docstore"

var (
	// ErrNotFound is returned when a filter matched no document.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when an identifier cannot be converted to an ObjectID.
	ErrInvalidID = errors.New("invalid document id")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// Document is implemented by stored types so inserts can assign their
// identifier and timestamps.
type Document interface {
	Stamp(now time.Time)
}

// Pointer constrains P to be *T implementing Document.
type Pointer[T any] interface {
	*T
	Document
}

// Collection is a typed view of a single MongoDB collection.
type Collection[T any, P Pointer[T]] struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	now    func() time.Time
}

// NewCollection binds a collection of db. The pointer type is inferred:
//
//	users := docstore.NewCollection[domain.User](db, "users")
func NewCollection[T any, P Pointer[T]](db *mongo.Database, name string) *Collection[T, P] {
	return &Collection[T, P]{
		coll:   db.Collection(name),
		tracer: otel.Tracer(tracerName),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Name returns the collection name.
func (c *Collection[T, P]) Name() string {
	return c.coll.Name()
}

// ParseID converts an opaque identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// FindOne returns the first document matching filter.
func (c *Collection[T, P]) FindOne(ctx context.Context, filter bson.M) (_ *T, err error) {
	ctx, span := c.start(ctx, "FindOne")
	defer func() { end(span, err) }()

	var doc T
	if err = c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one in %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

// FindMany returns every document matching filter, ordered by sort when given.
// The result is never nil.
func (c *Collection[T, P]) FindMany(ctx context.Context, filter bson.M, sort bson.D) (_ []T, err error) {
	ctx, span := c.start(ctx, "FindMany")
	defer func() { end(span, err) }()

	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

// Insert stores doc after stamping its identifier and timestamps.
func (c *Collection[T, P]) Insert(ctx context.Context, doc P) (err error) {
	ctx, span := c.start(ctx, "Insert")
	defer func() { end(span, err) }()

	doc.Stamp(c.now())
	if _, err = c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

// UpdateByID applies patch with $set and returns the post-update document.
func (c *Collection[T, P]) UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return c.UpdateOne(ctx, bson.M{"_id": oid}, patch, false)
}

// UpdateOne applies patch with $set to the first document matching filter
// and returns it after the update. With upsert a missing document is created
// from the filter's equality fields and the patch.
func (c *Collection[T, P]) UpdateOne(ctx context.Context, filter, patch bson.M, upsert bool) (_ *T, err error) {
	ctx, span := c.start(ctx, "UpdateOne")
	defer func() { end(span, err) }()

	return c.findOneAndUpdate(ctx, filter, setUpdate(c.now(), patch, upsert), upsert)
}

// PushToArray appends value to the array field of the first document matching
// filter and returns the post-update document.
func (c *Collection[T, P]) PushToArray(ctx context.Context, filter bson.M, field string, value any, upsert bool) (_ *T, err error) {
	ctx, span := c.start(ctx, "PushToArray")
	defer func() { end(span, err) }()

	update := setUpdate(c.now(), nil, upsert)
	update["$push"] = bson.M{field: value}
	return c.findOneAndUpdate(ctx, filter, update, upsert)
}

// UpdateMany applies patch with $set to every matching document and reports
// how many were modified.
func (c *Collection[T, P]) UpdateMany(ctx context.Context, filter, patch bson.M) (_ int64, err error) {
	ctx, span := c.start(ctx, "UpdateMany")
	defer func() { end(span, err) }()

	result, err := c.coll.UpdateMany(ctx, filter, setUpdate(c.now(), patch, false))
	if err != nil {
		return 0, fmt.Errorf("update many in %s: %w", c.coll.Name(), err)
	}
	return result.ModifiedCount, nil
}

// DeleteByID removes the document with the given identifier.
func (c *Collection[T, P]) DeleteByID(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	return c.DeleteOne(ctx, bson.M{"_id": oid})
}

// DeleteOne removes the first document matching filter.
func (c *Collection[T, P]) DeleteOne(ctx context.Context, filter bson.M) (err error) {
	ctx, span := c.start(ctx, "DeleteOne")
	defer func() { end(span, err) }()

	result, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents matching filter.
func (c *Collection[T, P]) Count(ctx context.Context, filter bson.M) (_ int64, err error) {
	ctx, span := c.start(ctx, "Count")
	defer func() { end(span, err) }()

	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

// setUpdate builds the update document for a $set patch. updatedAt is always
// refreshed; an upsert also stamps createdAt on the inserted document only.
func setUpdate(now time.Time, patch bson.M, upsert bool) bson.M {
	set := bson.M{"updatedAt": now}
	for k, v := range patch {
		set[k] = v
	}
	update := bson.M{"$set": set}
	if upsert {
		update["$setOnInsert"] = bson.M{"createdAt": now}
	}
	return update
}

func (c *Collection[T, P]) findOneAndUpdate(ctx context.Context, filter, update bson.M, upsert bool) (*T, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(upsert)

	var doc T
	if err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

func (c *Collection[T, P]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "docstore."+c.coll.Name()+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mongodb"),
			attribute.String("db.collection.name", c.coll.Name()),
		),
	)
}

// end closes span, marking it failed for anything but a plain miss.
func end(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
