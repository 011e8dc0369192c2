package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements contentblocks.Repository on a Postgres table holding
// one JSONB document per row.
type Repository struct {
	db    DBTX
	table string
}

// New creates a new Postgres repository over table, which may be schema qualified
func New(db DBTX, table string) *Repository {
	return &Repository{db: db, table: quoteTable(table)}
}

// NewWithPool creates a new Postgres repository with connection pool
func NewWithPool(pool *pgxpool.Pool, table string) *Repository {
	return New(pool, table)
}

// EnsureSchema creates the backing table when it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id CHAR(24) PRIMARY KEY,
			doc JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, r.table))
	if err != nil {
		return r.handlePostgresError("ensure schema", err)
	}
	return nil
}

func (r *Repository) FindOne(ctx context.Context, id string) (contentblocks.Document, error) {
	if _, err := contentblocks.ParseID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, r.table)
	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentblocks.ErrNotFound
		}
		return nil, r.handlePostgresError("find one", err)
	}
	return doc, nil
}

func (r *Repository) Find(ctx context.Context, filter contentblocks.Filter) ([]contentblocks.Document, error) {
	query, args, err := buildFindQuery(r.table, filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("find", err)
	}
	defer rows.Close()

	docs := make([]contentblocks.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, r.handlePostgresError("find", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("find", err)
	}
	return docs, nil
}

func (r *Repository) Save(ctx context.Context, doc contentblocks.Document) (string, error) {
	body, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}

	id := contentblocks.NewID()
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, r.table)
	if _, err := r.db.Exec(ctx, query, id, body); err != nil {
		return "", r.handlePostgresError("save", err)
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id string, doc contentblocks.Document) (int64, error) {
	if _, err := contentblocks.ParseID(id); err != nil {
		return 0, err
	}

	body, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return 0, fmt.Errorf("failed to encode content: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = now() WHERE id = $1`, r.table)
	tag, err := r.db.Exec(ctx, query, id, body)
	if err != nil {
		return 0, r.handlePostgresError("update", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	if _, err := contentblocks.ParseID(id); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, r.handlePostgresError("delete", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if pinger, ok := r.db.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	_, err := r.db.Exec(ctx, "SELECT 1")
	return err
}

// buildFindQuery turns a filter into a SELECT. Plain values are matched with
// JSONB containment; Regex values use the POSIX match operators.
func buildFindQuery(table string, filter contentblocks.Filter) (string, []any, error) {
	var (
		conditions []string
		args       []any
		equality   = map[string]any{}
	)

	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := filter[field]
		re, ok := value.(contentblocks.Regex)
		if !ok {
			equality[field] = value
			continue
		}
		op := "~"
		if re.CaseInsensitive() {
			op = "~*"
		}
		args = append(args, field, re.Pattern)
		conditions = append(conditions, fmt.Sprintf("doc->>$%d %s $%d", len(args)-1, op, len(args)))
	}

	if len(equality) > 0 {
		body, err := json.Marshal(equality)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		args = append(args, body)
		conditions = append(conditions, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s`, table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"
	return query, args, nil
}

func scanDocument(row pgx.Row) (contentblocks.Document, error) {
	var (
		id   string
		body []byte
	)
	if err := row.Scan(&id, &body); err != nil {
		return nil, err
	}

	doc := contentblocks.Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode content %s: %w", id, err)
	}
	doc[contentblocks.IDField] = id
	return doc, nil
}

func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("content already exists: %w", err)
		case "42P01": // undefined_table
			return fmt.Errorf("table %s does not exist - run EnsureSchema: %w", r.table, err)
		case "2201B": // invalid_regular_expression
			return fmt.Errorf("invalid pattern in %s: %w", operation, err)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s): %w", operation, pgErr.Message, pgErr.Code, err)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}
