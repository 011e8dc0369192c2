package contentblocks

import "context"

// Repository defines persistence for content items in a single collection.
//
// Implementations make exactly one store round-trip per call and never
// retry. Find returns an empty slice, not an error, when nothing matches;
// Update and Delete report the number of matched documents and leave the
// classification of a zero count to the caller.
type Repository interface {
	FindOne(ctx context.Context, id string) (Document, error)
	Find(ctx context.Context, filter Filter) ([]Document, error)
	Save(ctx context.Context, doc Document) (string, error)
	Update(ctx context.Context, id string, doc Document) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)

	// Ping checks that the underlying store is reachable
	Ping(ctx context.Context) error
}

// Service defines the content block operations exposed over HTTP
type Service interface {
	// Get returns a single item; misses fail with ErrNotFound
	Get(ctx context.Context, id string) (Document, error)

	// Find sanitizes rawQuery and returns matching items. An empty result
	// and a store failure both fail with ErrNoRecordsFound.
	Find(ctx context.Context, rawQuery string) ([]Document, error)

	// Create inserts doc and returns the store-assigned identifier
	Create(ctx context.Context, doc Document) (string, error)

	// Update replaces the item with the given id. Zero matches and store
	// failures both fail with ErrUpdateFailed.
	Update(ctx context.Context, id string, doc Document) (*UpdateResult, error)

	// Delete removes the item with the given id. Zero matches and store
	// failures both fail with ErrDeleteFailed.
	Delete(ctx context.Context, id string) (*DeleteResult, error)

	// Ping reports store reachability
	Ping(ctx context.Context) error
}
