package contentblocks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

func TestParseID(t *testing.T) {
	id := contentblocks.NewID()
	assert.Len(t, id, 24)

	oid, err := contentblocks.ParseID(id)
	require.NoError(t, err)
	assert.Equal(t, id, oid.Hex())

	for _, bad := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", id + "00"} {
		_, err := contentblocks.ParseID(bad)
		assert.ErrorIs(t, err, contentblocks.ErrInvalidID, bad)
	}
}

func TestDocument_ID(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, "abc", contentblocks.Document{"_id": "abc"}.ID())
	assert.Equal(t, oid.Hex(), contentblocks.Document{"_id": oid}.ID())
	assert.Equal(t, "", contentblocks.Document{"title": "x"}.ID())
}

func TestDocument_WithoutID(t *testing.T) {
	doc := contentblocks.Document{"_id": "abc", "title": "x"}

	out := doc.WithoutID()
	assert.Equal(t, contentblocks.Document{"title": "x"}, out)
	assert.Equal(t, "abc", doc.ID(), "original must not change")

	var nilDoc contentblocks.Document
	assert.Equal(t, contentblocks.Document{}, nilDoc.WithoutID())
}

func TestRegex_CaseInsensitive(t *testing.T) {
	assert.True(t, contentblocks.Regex{Pattern: "a", Options: "mi"}.CaseInsensitive())
	assert.False(t, contentblocks.Regex{Pattern: "a", Options: "m"}.CaseInsensitive())
}
