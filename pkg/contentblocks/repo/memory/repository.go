package memory

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

// Repository implements contentblocks.Repository using in-memory storage
type Repository struct {
	mu        sync.RWMutex
	documents map[string]contentblocks.Document
	order     []string // insertion order, so Find is deterministic
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		documents: make(map[string]contentblocks.Document),
	}
}

func (r *Repository) FindOne(ctx context.Context, id string) (contentblocks.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.documents[id]
	if !exists {
		return nil, contentblocks.ErrNotFound
	}
	// Return a copy to prevent external modifications
	return maps.Clone(doc), nil
}

func (r *Repository) Find(ctx context.Context, filter contentblocks.Filter) ([]contentblocks.Document, error) {
	matchers, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]contentblocks.Document, 0)
	for _, id := range r.order {
		doc := r.documents[id]
		if matchesAll(doc, matchers) {
			result = append(result, maps.Clone(doc))
		}
	}
	return result, nil
}

func (r *Repository) Save(ctx context.Context, doc contentblocks.Document) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := contentblocks.NewID()
	stored := maps.Clone(doc)
	if stored == nil {
		stored = contentblocks.Document{}
	}
	stored[contentblocks.IDField] = id

	r.documents[id] = stored
	r.order = append(r.order, id)
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id string, doc contentblocks.Document) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.documents[id]; !exists {
		return 0, nil
	}

	replacement := maps.Clone(doc)
	if replacement == nil {
		replacement = contentblocks.Document{}
	}
	replacement[contentblocks.IDField] = id
	r.documents[id] = replacement
	return 1, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.documents[id]; !exists {
		return 0, nil
	}

	delete(r.documents, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}

type fieldMatcher struct {
	field string
	match func(value any, present bool) bool
}

func compileFilter(filter contentblocks.Filter) ([]fieldMatcher, error) {
	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	matchers := make([]fieldMatcher, 0, len(fields))
	for _, field := range fields {
		switch want := filter[field].(type) {
		case contentblocks.Regex:
			re, err := regexp.Compile(regexFlags(want.Options) + want.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern for %s: %w", field, err)
			}
			matchers = append(matchers, fieldMatcher{field: field, match: func(value any, present bool) bool {
				s, ok := value.(string)
				return present && ok && re.MatchString(s)
			}})
		default:
			matchers = append(matchers, fieldMatcher{field: field, match: func(value any, present bool) bool {
				if want == nil {
					return !present || value == nil
				}
				return present && reflect.DeepEqual(value, want)
			}})
		}
	}
	return matchers, nil
}

func matchesAll(doc contentblocks.Document, matchers []fieldMatcher) bool {
	for _, m := range matchers {
		value, present := doc[m.field]
		if !m.match(value, present) {
			return false
		}
	}
	return true
}

// regexFlags turns MongoDB $options letters into an RE2 flag group.
// x has no RE2 equivalent and is ignored.
func regexFlags(options string) string {
	var flags []byte
	for _, f := range "ims" {
		if strings.ContainsRune(options, f) {
			flags = append(flags, byte(f))
		}
	}
	if len(flags) == 0 {
		return ""
	}
	return "(?" + string(flags) + ")"
}
