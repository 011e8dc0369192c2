package contentblocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// service implements the Service interface
type service struct {
	repository Repository
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
	}

	for _, option := range options {
		if option != nil {
			option(s)
		}
	}

	if s.repository == nil {
		return nil, errors.New("repository is required")
	}

	return s, nil
}

func (s *service) Get(ctx context.Context, id string) (Document, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}

	doc, err := s.repository.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ContentError{ID: id, Op: "get", Err: ErrNotFound}
		}
		return nil, &ContentError{ID: id, Op: "get", Err: err}
	}
	return doc, nil
}

func (s *service) Find(ctx context.Context, rawQuery string) ([]Document, error) {
	filter, err := Sanitize(rawQuery)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "finding content", "query", rawQuery)
	docs, err := s.repository.Find(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "content find failed", "query", rawQuery, "error", err)
		return nil, &ContentError{Op: "find", Err: fmt.Errorf("%w: %w", ErrNoRecordsFound, err)}
	}
	if len(docs) == 0 {
		return nil, &ContentError{Op: "find", Err: ErrNoRecordsFound}
	}
	return docs, nil
}

func (s *service) Create(ctx context.Context, doc Document) (string, error) {
	if doc == nil {
		return "", &ContentError{Op: "create", Err: ErrInvalidDocument}
	}

	id, err := s.repository.Save(ctx, doc.WithoutID())
	if err != nil {
		return "", &ContentError{Op: "create", Err: err}
	}

	s.logger.InfoContext(ctx, "content created", "content_id", id)
	return id, nil
}

func (s *service) Update(ctx context.Context, id string, doc Document) (*UpdateResult, error) {
	if doc == nil {
		return nil, &ContentError{ID: id, Op: "update", Err: ErrInvalidDocument}
	}
	if _, err := ParseID(id); err != nil {
		return nil, &ContentError{ID: id, Op: "update", Err: fmt.Errorf("%w: %w", ErrUpdateFailed, err)}
	}

	replacement := doc.WithoutID()
	matched, err := s.repository.Update(ctx, id, replacement)
	if err != nil {
		return nil, &ContentError{ID: id, Op: "update", Err: fmt.Errorf("%w: %w", ErrUpdateFailed, err)}
	}
	if matched == 0 {
		return nil, &ContentError{ID: id, Op: "update", Err: fmt.Errorf("%w: no record could be updated", ErrUpdateFailed)}
	}

	s.logger.InfoContext(ctx, "content updated", "content_id", id, "updated", matched)
	return &UpdateResult{Document: replacement, Updated: matched}, nil
}

func (s *service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if _, err := ParseID(id); err != nil {
		return nil, &ContentError{ID: id, Op: "delete", Err: fmt.Errorf("%w: %w", ErrDeleteFailed, err)}
	}

	matched, err := s.repository.Delete(ctx, id)
	if err != nil {
		return nil, &ContentError{ID: id, Op: "delete", Err: fmt.Errorf("%w: %w", ErrDeleteFailed, err)}
	}
	if matched == 0 {
		return nil, &ContentError{ID: id, Op: "delete", Err: fmt.Errorf("%w: no content block found", ErrDeleteFailed)}
	}

	s.logger.InfoContext(ctx, "content deleted", "content_id", id)
	return &DeleteResult{ID: id, Deleted: matched}, nil
}

func (s *service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}
