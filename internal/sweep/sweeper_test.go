package sweep

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stallcraft/stallcraft/internal/config"
	"github.com/stallcraft/stallcraft/internal/storage"
)

type fakeRefs struct {
	urls []string
	err  error
}

func (f *fakeRefs) MediaURLs(context.Context) ([]string, error) {
	return f.urls, f.err
}

type fakeProvider struct {
	objects map[string]time.Time
	deleted []string
	listErr error
}

func (p *fakeProvider) Put(context.Context, string, io.Reader, int64, string) error {
	return errors.New("not implemented")
}

func (p *fakeProvider) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (p *fakeProvider) Delete(_ context.Context, key string) error {
	delete(p.objects, key)
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *fakeProvider) List(_ context.Context, prefix string) ([]storage.Object, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	var objects []storage.Object
	for key, modified := range p.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, storage.Object{Key: key, LastModified: modified})
		}
	}
	return objects, nil
}

func (p *fakeProvider) PublicURL(key string) string {
	return storage.Locator{Bucket: "test-bucket", Key: key}.PublicURL("https://cdn.test")
}

func TestRunDeletesOnlyUnreferencedExpiredBlobs(t *testing.T) {
	t.Parallel()

	old := time.Now().Add(-2 * time.Hour)
	fresh := time.Now().Add(-time.Minute)

	provider := &fakeProvider{objects: map[string]time.Time{
		"stall-craft/image/referenced.jpg": old,
		"stall-craft/image/orphan.jpg":     old,
		"stall-craft/video/fresh.mp4":      fresh,
	}}
	refs := &fakeRefs{urls: []string{
		"https://cdn.test/test-bucket/stall-craft/image/referenced.jpg",
	}}

	sweeper := New(nil, provider, refs, "stall-craft", config.SweepConfig{GraceMinutes: 60})
	deleted, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted %d blobs, want 1", deleted)
	}
	if len(provider.deleted) != 1 || provider.deleted[0] != "stall-craft/image/orphan.jpg" {
		t.Fatalf("deleted keys = %v", provider.deleted)
	}
	if _, ok := provider.objects["stall-craft/image/referenced.jpg"]; !ok {
		t.Fatalf("referenced blob was removed")
	}
	if _, ok := provider.objects["stall-craft/video/fresh.mp4"]; !ok {
		t.Fatalf("blob inside grace period was removed")
	}
}

func TestRunTreatsUnparsableReferencesAsUnreferenced(t *testing.T) {
	t.Parallel()

	old := time.Now().Add(-2 * time.Hour)
	provider := &fakeProvider{objects: map[string]time.Time{
		"stall-craft/image/a.jpg": old,
	}}
	// The reference cannot be resolved to a key, so the blob is treated as
	// unreferenced. Only its age decides; here it is expired and goes.
	refs := &fakeRefs{urls: []string{"not-a-url"}}

	sweeper := New(nil, provider, refs, "stall-craft", config.SweepConfig{GraceMinutes: 60})
	deleted, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
}

func TestRunPropagatesListingErrors(t *testing.T) {
	t.Parallel()

	t.Run("reference query fails", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{objects: map[string]time.Time{}}
		refs := &fakeRefs{err: errors.New("db down")}
		sweeper := New(nil, provider, refs, "stall-craft", config.SweepConfig{})
		if _, err := sweeper.Run(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("object listing fails", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{listErr: errors.New("storage down")}
		refs := &fakeRefs{}
		sweeper := New(nil, provider, refs, "stall-craft", config.SweepConfig{})
		if _, err := sweeper.Run(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})
}
