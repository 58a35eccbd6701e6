// Package docstore wraps the MongoDB driver with the small set of document
// operations the repositories need: insert, fetch, equality filters, partial
// merge updates, and a compare-and-swap update keyed on a version field.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/printipid/printipid/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// ErrNotFound is returned when a document lookup matches nothing.
var ErrNotFound = errors.New("docstore: document not found")

// ErrVersionConflict is returned by UpdateCAS when the stored version no
// longer matches the caller's expected version.
var ErrVersionConflict = errors.New("docstore: version conflict")

// Connect opens the MongoDB connection and verifies it with a ping.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("docstore: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("docstore: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDB())
	return nil
}

// Close disconnects the client. Safe to call when Connect never ran.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// Collection returns a handle to the named collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// Insert stores a new document.
func Insert(ctx context.Context, coll string, doc interface{}) error {
	if _, err := Collection(coll).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("docstore: insert %s: %w", coll, err)
	}
	return nil
}

// FindByID fetches a single document by its _id into dest.
func FindByID(ctx context.Context, coll, id string, dest interface{}) error {
	err := Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("docstore: find %s/%s: %w", coll, id, err)
	}
	return nil
}

// FindOne fetches the first document matching filter into dest.
func FindOne(ctx context.Context, coll string, filter bson.M, dest interface{}) error {
	err := Collection(coll).FindOne(ctx, filter).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("docstore: find one %s: %w", coll, err)
	}
	return nil
}

// Find fetches all documents matching filter into dest (a pointer to a slice).
// Pass opts to control sort order, e.g. options.Find().SetSort(...).
func Find(ctx context.Context, coll string, filter bson.M, dest interface{}, opts ...*options.FindOptions) error {
	cur, err := Collection(coll).Find(ctx, filter, opts...)
	if err != nil {
		return fmt.Errorf("docstore: find %s: %w", coll, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, dest); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", coll, err)
	}
	return nil
}

// UpdateMerge applies a partial $set update to the document with the given _id.
func UpdateMerge(ctx context.Context, coll, id string, fields bson.M) error {
	res, err := Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", coll, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCAS applies update to the document with the given _id only if its
// "version" field equals expectedVersion, bumping the version atomically.
// The modified document is decoded into dest when dest is non-nil.
func UpdateCAS(ctx context.Context, coll, id string, expectedVersion int64, update bson.M, dest interface{}) error {
	set := bson.M{"version": expectedVersion + 1}
	for k, v := range update {
		set[k] = v
	}

	mutation := bson.M{"$set": set}

	after := options.After
	res := Collection(coll).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "version": expectedVersion},
		mutation,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the document is missing or the version moved. Distinguish
			// so callers can map to 404 vs 409.
			count, cntErr := Collection(coll).CountDocuments(ctx, bson.M{"_id": id})
			if cntErr == nil && count > 0 {
				return ErrVersionConflict
			}
			return ErrNotFound
		}
		return fmt.Errorf("docstore: cas update %s/%s: %w", coll, id, err)
	}

	if dest != nil {
		if err := res.Decode(dest); err != nil {
			return fmt.Errorf("docstore: cas decode %s/%s: %w", coll, id, err)
		}
	}
	return nil
}

// Push appends values to an array field on the document with the given _id.
func Push(ctx context.Context, coll, id, field string, values ...interface{}) error {
	res, err := Collection(coll).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{field: bson.M{"$each": values}}},
	)
	if err != nil {
		return fmt.Errorf("docstore: push %s/%s: %w", coll, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the document with the given _id.
func Delete(ctx context.Context, coll, id string) error {
	res, err := Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", coll, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents matching filter.
func Count(ctx context.Context, coll string, filter bson.M) (int64, error) {
	n, err := Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("docstore: count %s: %w", coll, err)
	}
	return n, nil
}
