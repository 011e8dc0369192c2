package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

func TestToBSONFilter(t *testing.T) {
	filter := contentblocks.Filter{
		"@subject": contentblocks.Regex{Pattern: "^news", Options: "i"},
		"order":    float64(3),
	}

	got := toBSONFilter(filter)
	assert.Equal(t, bson.M{
		"@subject": primitive.Regex{Pattern: "^news", Options: "i"},
		"order":    float64(3),
	}, got)
}

func TestFromBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	raw := bson.M{
		"_id":   oid,
		"title": "Hello",
		"meta":  bson.D{{Key: "lang", Value: "en"}},
		"tags":  bson.A{"a", bson.M{"ref": oid}},
	}

	got := fromBSON(raw)
	assert.Equal(t, contentblocks.Document{
		"_id":   oid.Hex(),
		"title": "Hello",
		"meta":  map[string]any{"lang": "en"},
		"tags":  []any{"a", map[string]any{"ref": oid.Hex()}},
	}, got)
}

// newTestRepository connects to TEST_MONGO_URL and uses a throwaway collection
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TEST_MONGO_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := fmt.Sprintf("content_test_%d", time.Now().UnixNano())
	repo, err := Connect(ctx, uri, "contentblocks_test", collection)
	require.NoError(t, err, "Failed to connect to test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = repo.collection.Drop(ctx)
		_ = repo.Close(ctx)
	})
	return repo
}

func TestRepository_Integration(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := contentblocks.Document{"@subject": "abc", "title": "Hello", "meta": map[string]any{"lang": "en"}}
	id, err := repo.Save(ctx, doc)
	require.NoError(t, err)

	got, err := repo.FindOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID())
	assert.Equal(t, "Hello", got["title"])
	assert.Equal(t, map[string]any{"lang": "en"}, got["meta"])

	docs, err := repo.Find(ctx, contentblocks.Filter{"@subject": contentblocks.Regex{Pattern: "^ABC$", Options: "i"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID())

	docs, err = repo.Find(ctx, contentblocks.Filter{"@subject": "missing"})
	require.NoError(t, err)
	assert.Empty(t, docs)

	matched, err := repo.Update(ctx, id, contentblocks.Document{"@subject": "abc", "body": "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	matched, err = repo.Update(ctx, contentblocks.NewID(), contentblocks.Document{"body": "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)

	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindOne(ctx, id)
	assert.ErrorIs(t, err, contentblocks.ErrNotFound)

	assert.NoError(t, repo.Ping(ctx))
}

func TestRepository_InvalidID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.FindOne(ctx, "nope")
	assert.ErrorIs(t, err, contentblocks.ErrInvalidID)

	_, err = repo.Delete(ctx, "nope")
	assert.ErrorIs(t, err, contentblocks.ErrInvalidID)
}
