package contentblocks

import (
	"maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the document key holding the store-assigned identifier.
const IDField = "_id"

// SubjectField is the conventional lookup key written by the editing plugin.
const SubjectField = "@subject"

// Document is a schemaless content item.
type Document map[string]any

// ID returns the identifier stored under IDField, or "" when unset.
func (d Document) ID() string {
	switch v := d[IDField].(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return ""
	}
}

// WithoutID returns a shallow copy of d with the identifier removed.
func (d Document) WithoutID() Document {
	out := maps.Clone(d)
	if out == nil {
		out = Document{}
	}
	delete(out, IDField)
	return out
}

// Filter selects documents. Values are plain JSON values compared for
// equality, or Regex values matched against string fields.
type Filter map[string]any

// Regex matches a string field against Pattern. Options follow the
// MongoDB $options letters; "i" makes the match case-insensitive.
type Regex struct {
	Pattern string `json:"pattern"`
	Options string `json:"options,omitempty"`
}

// CaseInsensitive reports whether Options carries the "i" flag.
func (r Regex) CaseInsensitive() bool {
	for _, o := range r.Options {
		if o == 'i' {
			return true
		}
	}
	return false
}

// UpdateResult is the response body for a replace-by-id.
type UpdateResult struct {
	Document Document `json:"document"`
	Updated  int64    `json:"updated"`
}

// DeleteResult is the response body for a delete-by-id.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted int64  `json:"deleted"`
}

// NewID returns a fresh object id in its hex form. Stores without native
// object ids use it to assign identifiers on insert.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID converts a hex identifier into an object id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &ContentError{ID: id, Op: "parse id", Err: ErrInvalidID}
	}
	return oid, nil
}
