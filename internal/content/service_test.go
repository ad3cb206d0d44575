package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stallcraft/stallcraft/internal/docstore"
)

type fakeStore struct {
	mu        sync.Mutex
	seq       int
	docs      []docstore.Document
	listCalls int
	getCalls  int
	listErr   error
	watchFn   func()
}

func (f *fakeStore) Insert(_ context.Context, _ string, fields map[string]any) (docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	doc := docstore.Document{
		ID:        fmt.Sprintf("00000000-0000-0000-0000-%012d", f.seq),
		Data:      fields,
		CreatedOn: time.Now(),
		UpdatedOn: time.Now(),
	}
	f.docs = append([]docstore.Document{doc}, f.docs...)
	return doc, nil
}

func (f *fakeStore) Get(_ context.Context, _ string, id string) (docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	for _, doc := range f.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return docstore.Document{}, docstore.ErrNotFound
}

func (f *fakeStore) List(context.Context, string) ([]docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]docstore.Document(nil), f.docs...), nil
}

func (f *fakeStore) Patch(_ context.Context, _ string, id string, patch map[string]any) (docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs {
		if doc.ID != id {
			continue
		}
		for k, v := range patch {
			doc.Data[k] = v
		}
		doc.UpdatedOn = time.Now()
		f.docs[i] = doc
		return doc, nil
	}
	return docstore.Document{}, docstore.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs {
		if doc.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return docstore.ErrNotFound
}

func (f *fakeStore) Watch(_ context.Context, _ string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watchFn = fn
}

func (f *fakeStore) counts() (listCalls, getCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.getCalls
}

func TestListServesCacheUntilForced(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newService[Blog](nil, store, BlogCollection)
	ctx := context.Background()

	if _, err := store.Insert(ctx, BlogCollection, map[string]any{"title": "A"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("cold list: %v", err)
	}
	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("warm list: %v", err)
	}
	if listCalls, _ := store.counts(); listCalls != 1 {
		t.Fatalf("store listed %d times, want 1 (second read must hit the cache)", listCalls)
	}

	if _, err := svc.List(ctx, true); err != nil {
		t.Fatalf("forced list: %v", err)
	}
	if listCalls, _ := store.counts(); listCalls != 2 {
		t.Fatalf("forceRefresh must bypass the cache: %d store lists", listCalls)
	}
}

func TestListReflectsEveryLocalWrite(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newService[Blog](nil, store, BlogCollection)
	ctx := context.Background()

	created, err := svc.Add(ctx, map[string]any{"title": "First", "summary": "s"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	listCallsAfterAdd, _ := store.counts()
	blogs, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blogs) != 1 || blogs[0].ID != created.ID || blogs[0].Title != "First" {
		t.Fatalf("list after add = %+v", blogs)
	}
	if listCalls, _ := store.counts(); listCalls != listCallsAfterAdd {
		t.Fatalf("list after add must come from the refreshed cache")
	}

	if _, err := svc.Update(ctx, created.ID, map[string]any{"title": "Renamed"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	blogs, err = svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if blogs[0].Title != "Renamed" {
		t.Fatalf("list after update = %+v", blogs)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	blogs, err = svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blogs) != 0 {
		t.Fatalf("list after delete = %+v", blogs)
	}
}

func TestGetByIDPrefersCache(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newService[Blog](nil, store, BlogCollection)
	ctx := context.Background()

	seeded, err := store.Insert(ctx, BlogCollection, map[string]any{"title": "Cached"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Cold cache goes to the store.
	blog, err := svc.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if blog.Title != "Cached" {
		t.Fatalf("blog = %+v", blog)
	}
	if _, getCalls := store.counts(); getCalls != 1 {
		t.Fatalf("cold get must query the store: %d calls", getCalls)
	}

	// Warm cache answers without a point lookup.
	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.GetByID(ctx, seeded.ID); err != nil {
		t.Fatalf("warm get: %v", err)
	}
	if _, getCalls := store.counts(); getCalls != 1 {
		t.Fatalf("warm get must come from the cache: %d store gets", getCalls)
	}

	if _, err := svc.GetByID(ctx, "00000000-0000-0000-0000-000000000999"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWatchInvalidatesCache(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newService[Blog](nil, store, BlogCollection)
	ctx := context.Background()

	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("list: %v", err)
	}

	// The fake store records the invalidation callback instead of blocking.
	svc.Watch(ctx)
	if store.watchFn == nil {
		t.Fatalf("watch did not register a callback")
	}

	// Another writer touches the collection.
	if _, err := store.Insert(ctx, BlogCollection, map[string]any{"title": "Remote"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store.watchFn()

	blogs, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blogs) != 1 || blogs[0].Title != "Remote" {
		t.Fatalf("list after invalidation = %+v", blogs)
	}
	if listCalls, _ := store.counts(); listCalls != 2 {
		t.Fatalf("invalidation must force the next list to the store: %d calls", listCalls)
	}
}

func TestWriteSurvivesFailedCacheRefresh(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newService[Blog](nil, store, BlogCollection)
	ctx := context.Background()

	store.listErr = errors.New("db hiccup")
	created, err := svc.Add(ctx, map[string]any{"title": "Kept"})
	if err != nil {
		t.Fatalf("a failed cache refresh must not fail the write: %v", err)
	}
	if created.Title != "Kept" {
		t.Fatalf("created = %+v", created)
	}

	// The cache was invalidated, so the next list retries the store.
	store.listErr = nil
	blogs, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blogs) != 1 || blogs[0].ID != created.ID {
		t.Fatalf("list = %+v", blogs)
	}
}
