// Package docstore persists schemaless content documents in Postgres JSONB,
// grouped into named collections. It is the single write path for every
// content record; callers never touch SQL directly.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbpkg "github.com/stallcraft/stallcraft/internal/db"
)

// ErrNotFound indicates the requested document does not exist in the collection.
var ErrNotFound = errors.New("document not found")

// Document is a stored record: an opaque JSON body plus server-assigned
// identity and timestamps.
type Document struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedOn time.Time      `json:"createdOn"`
	UpdatedOn time.Time      `json:"updatedOn"`
}

// Store provides document persistence over a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: log.With(slog.String("service", "docstore")),
	}
}

// Insert creates a document and returns its server-assigned id.
func (s *Store) Insert(ctx context.Context, collection string, doc map[string]any) (Document, error) {
	body, err := json.Marshal(nonNilMap(doc))
	if err != nil {
		return Document{}, fmt.Errorf("encode document: %w", err)
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO documents (collection, data)
		 VALUES ($1, $2)
		 RETURNING id, data, created_on, updated_on`,
		collection, body,
	)
	return scanDocument(row)
}

// Get returns a document by id. Unknown or malformed ids report ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	pgID, err := dbpkg.ParseUUID(id)
	if err != nil {
		return Document{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT id, data, created_on, updated_on
		 FROM documents
		 WHERE collection = $1 AND id = $2`,
		collection, pgID,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// List returns all documents in a collection, newest first.
func (s *Store) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, data, created_on, updated_on
		 FROM documents
		 WHERE collection = $1
		 ORDER BY created_on DESC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Patch merges the given fields into an existing document's body and bumps
// updated_on. Fields absent from patch keep their stored values.
func (s *Store) Patch(ctx context.Context, collection, id string, patch map[string]any) (Document, error) {
	pgID, err := dbpkg.ParseUUID(id)
	if err != nil {
		return Document{}, ErrNotFound
	}
	body, err := json.Marshal(nonNilMap(patch))
	if err != nil {
		return Document{}, fmt.Errorf("encode patch: %w", err)
	}
	row := s.pool.QueryRow(ctx,
		`UPDATE documents
		 SET data = data || $3, updated_on = now()
		 WHERE collection = $1 AND id = $2
		 RETURNING id, data, created_on, updated_on`,
		collection, pgID, body,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// Delete removes a document by id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	pgID, err := dbpkg.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, pgID,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MediaURLs returns every media or image URL referenced by any document in
// any collection. The blob sweeper treats this as the set of live references.
func (s *Store) MediaURLs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT url FROM (
		     SELECT data->>'image' AS url FROM documents
		     UNION
		     SELECT data->>'media' AS url FROM documents
		 ) refs
		 WHERE url IS NOT NULL AND url <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("list media refs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan media ref: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// Watch invokes fn whenever any writer mutates the collection, using a
// dedicated LISTEN/NOTIFY connection. Blocks until ctx is cancelled; the
// connection is re-established after transient failures.
func (s *Store) Watch(ctx context.Context, collection string, fn func()) {
	log := s.logger.With(slog.String("collection", collection))
	for {
		if err := s.listen(ctx, collection, fn); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("change listener disconnected", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (s *Store) listen(ctx context.Context, collection string, fn func()) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN document_change"); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		if notification.Payload == collection {
			fn()
		}
	}
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		id        pgtype.UUID
		body      []byte
		createdOn pgtype.Timestamptz
		updatedOn pgtype.Timestamptz
	)
	if err := row.Scan(&id, &body, &createdOn, &updatedOn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	doc := Document{
		ID:        id.String(),
		CreatedOn: dbpkg.TimeFromPg(createdOn),
		UpdatedOn: dbpkg.TimeFromPg(updatedOn),
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc.Data); err != nil {
			return Document{}, fmt.Errorf("decode document body: %w", err)
		}
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	return doc, nil
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
