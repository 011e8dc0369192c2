package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

// Repository implements contentblocks.Repository on a single MongoDB collection
type Repository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// New creates a repository over the named collection of db
func New(db *mongo.Database, collection string) *Repository {
	return &Repository{
		client:     db.Client(),
		collection: db.Collection(collection),
	}
}

// Connect dials uri, verifies the connection and returns a repository over
// database/collection. The caller owns the client and must call Close.
func Connect(ctx context.Context, uri, database, collection string) (*Repository, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return New(client.Database(database), collection), nil
}

// Close disconnects the underlying client
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) FindOne(ctx context.Context, id string) (contentblocks.Document, error) {
	oid, err := contentblocks.ParseID(id)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	err = r.collection.FindOne(ctx, bson.M{contentblocks.IDField: oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contentblocks.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find content %s: %w", id, err)
	}
	return fromBSON(raw), nil
}

func (r *Repository) Find(ctx context.Context, filter contentblocks.Filter) ([]contentblocks.Document, error) {
	cursor, err := r.collection.Find(ctx, toBSONFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to read content cursor: %w", err)
	}

	docs := make([]contentblocks.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (r *Repository) Save(ctx context.Context, doc contentblocks.Document) (string, error) {
	res, err := r.collection.InsertOne(ctx, bson.M(doc.WithoutID()))
	if err != nil {
		return "", fmt.Errorf("failed to insert content: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repository) Update(ctx context.Context, id string, doc contentblocks.Document) (int64, error) {
	oid, err := contentblocks.ParseID(id)
	if err != nil {
		return 0, err
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{contentblocks.IDField: oid}, bson.M(doc.WithoutID()))
	if err != nil {
		return 0, fmt.Errorf("failed to replace content %s: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := contentblocks.ParseID(id)
	if err != nil {
		return 0, err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{contentblocks.IDField: oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete content %s: %w", id, err)
	}
	return res.DeletedCount, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func toBSONFilter(filter contentblocks.Filter) bson.M {
	out := make(bson.M, len(filter))
	for field, value := range filter {
		if re, ok := value.(contentblocks.Regex); ok {
			out[field] = primitive.Regex{Pattern: re.Pattern, Options: re.Options}
			continue
		}
		out[field] = value
	}
	return out
}

// fromBSON converts a decoded document into plain JSON-friendly values and
// renders the object id in its hex form.
func fromBSON(raw bson.M) contentblocks.Document {
	doc := make(contentblocks.Document, len(raw))
	for k, v := range raw {
		doc[k] = normalize(v)
	}
	return doc
}

func normalize(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case bson.M:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalize(inner)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalize(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalize(inner)
		}
		return out
	default:
		return v
	}
}
