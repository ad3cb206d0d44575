// Package content provides the CRUD services behind every site collection:
// blogs, products, testimonials, and contact leads. Each service fronts the
// document store with a process-local listing cache that is refreshed on
// every local write and invalidated when another writer touches the
// collection.
package content

import (
	"context"
	"log/slog"

	"github.com/stallcraft/stallcraft/internal/docstore"
)

// Store is the slice of the document store the content services depend on.
// *docstore.Store satisfies it.
type Store interface {
	Insert(ctx context.Context, collection string, doc map[string]any) (docstore.Document, error)
	Get(ctx context.Context, collection, id string) (docstore.Document, error)
	List(ctx context.Context, collection string) ([]docstore.Document, error)
	Patch(ctx context.Context, collection, id string, patch map[string]any) (docstore.Document, error)
	Delete(ctx context.Context, collection, id string) error
	Watch(ctx context.Context, collection string, fn func())
}

// Service is the shared CRUD core, typed per record.
type Service[T any] struct {
	collection string
	store      Store
	cache      *Cache[T]
	logger     *slog.Logger
}

func newService[T any](log *slog.Logger, store Store, collection string) *Service[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Service[T]{
		collection: collection,
		store:      store,
		cache:      NewCache[T](),
		logger:     log.With(slog.String("service", collection)),
	}
}

// List returns the collection, newest first. The cached snapshot is served
// unless it has never been populated or forceRefresh is set; reads never
// invalidate it, only writes do.
func (s *Service[T]) List(ctx context.Context, forceRefresh bool) ([]T, error) {
	if !forceRefresh {
		if items, ok := s.cache.Snapshot(); ok {
			return items, nil
		}
	}
	return s.refresh(ctx)
}

// GetByID returns one record, serving from the cache when possible.
// Reports docstore.ErrNotFound when absent.
func (s *Service[T]) GetByID(ctx context.Context, id string) (T, error) {
	if items, ok := s.cache.Snapshot(); ok {
		for _, item := range items {
			if recordID(item) == id {
				return item, nil
			}
		}
	}
	var zero T
	doc, err := s.store.Get(ctx, s.collection, id)
	if err != nil {
		return zero, err
	}
	return decodeDocument[T](doc)
}

// Add persists a new record; createdOn is assigned server-side by the store.
func (s *Service[T]) Add(ctx context.Context, fields map[string]any) (T, error) {
	var zero T
	doc, err := s.store.Insert(ctx, s.collection, fields)
	if err != nil {
		return zero, err
	}
	s.logger.Info("record added", slog.String("id", doc.ID))
	s.refreshAfterWrite(ctx)
	return decodeDocument[T](doc)
}

// Update merges a partial patch into an existing record; updatedOn is
// assigned server-side by the store.
func (s *Service[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T
	doc, err := s.store.Patch(ctx, s.collection, id, patch)
	if err != nil {
		return zero, err
	}
	s.logger.Info("record updated", slog.String("id", doc.ID))
	s.refreshAfterWrite(ctx)
	return decodeDocument[T](doc)
}

// Delete removes a record. Deleting associated media is the caller's job and
// must happen before this, so a crash between the two steps leaves at worst
// an orphaned blob, never a dangling media URL.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, s.collection, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", slog.String("id", id))
	s.refreshAfterWrite(ctx)
	return nil
}

// Watch blocks, invalidating the cache whenever another writer mutates the
// collection. Run it in its own goroutine; it returns when ctx is cancelled.
func (s *Service[T]) Watch(ctx context.Context) {
	s.store.Watch(ctx, s.collection, s.cache.Invalidate)
}

func (s *Service[T]) refresh(ctx context.Context) ([]T, error) {
	docs, err := s.store.List(ctx, s.collection)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	s.cache.Replace(items)
	return items, nil
}

// refreshAfterWrite repopulates the cache so the next List reflects the
// mutation. A refresh failure only degrades the cache, never the write that
// already succeeded.
func (s *Service[T]) refreshAfterWrite(ctx context.Context) {
	if _, err := s.refresh(ctx); err != nil {
		s.cache.Invalidate()
		s.logger.Warn("cache refresh after write failed", slog.String("error", err.Error()))
	}
}

// recordID extracts the id field from a typed record.
func recordID(item any) string {
	type identifiable interface{ RecordID() string }
	if r, ok := item.(identifiable); ok {
		return r.RecordID()
	}
	return ""
}
