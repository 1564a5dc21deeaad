// Package sink implements the MongoDB document store sink.
// Records are stored as ordered BSON documents, one collection per record
// type; batches are written with a single InsertMany.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/rpipipe/core/tree"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssueField is the record field holding the issue label.
const IssueField = "issue"

// MongoSink writes record batches to a MongoDB database.
type MongoSink struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for uri and verifies the connection.
// Credentials travel in uri, which callers take from the environment.
func Connect(ctx context.Context, uri, database string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &MongoSink{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// InsertMany inserts records into collection in one call.
func (s *MongoSink) InsertMany(ctx context.Context, collection string, records []tree.Node) error {
	docs := make([]interface{}, len(records))
	for i, rec := range records {
		docs[i] = Value(rec)
	}
	if _, err := s.db.Collection(collection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert many into %s: %w", collection, err)
	}
	return nil
}

// LastIssue returns the greatest issue label in collection.
func (s *MongoSink) LastIssue(ctx context.Context, collection string) (string, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: IssueField, Value: -1}}).
		SetProjection(bson.D{{Key: IssueField, Value: 1}})

	var out struct {
		Issue string `bson:"issue"`
	}
	err := s.db.Collection(collection).FindOne(ctx, bson.D{}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying last issue in %s: %w", collection, err)
	}
	return out.Issue, nil
}

// Value converts a node to its BSON form: Compound -> bson.D (order kept),
// List -> bson.A, Scalar -> string, Missing -> nil.
func Value(n tree.Node) interface{} {
	switch n.Kind() {
	case tree.Scalar:
		s, _ := n.Str()
		return s
	case tree.Compound:
		fields := n.Fields()
		doc := make(bson.D, 0, len(fields))
		for _, f := range fields {
			doc = append(doc, bson.E{Key: f.Name, Value: Value(f.Value)})
		}
		return doc
	case tree.List:
		items := n.Items()
		arr := make(bson.A, 0, len(items))
		for _, item := range items {
			arr = append(arr, Value(item))
		}
		return arr
	}
	return nil
}
