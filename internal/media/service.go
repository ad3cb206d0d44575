// Package media implements the upload/replace/delete lifecycle for record
// media: an inbound file becomes a stored blob plus a resolvable public URL,
// and blobs no longer referenced by any record get deleted.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/stallcraft/stallcraft/internal/config"
	"github.com/stallcraft/stallcraft/internal/storage"
)

// Service is stateless between calls; all state lives in the object store and
// in the media fields of content records.
type Service struct {
	provider  storage.Provider
	logger    *slog.Logger
	maxBytes  int64
	namespace string
}

// NewService creates a media service over the given storage provider.
func NewService(log *slog.Logger, provider storage.Provider, cfg config.MediaConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = MaxMediaBytes
	}
	namespace := strings.Trim(cfg.KeyNamespace, "/")
	if namespace == "" {
		namespace = config.DefaultKeyNamespace
	}
	return &Service{
		provider:  provider,
		logger:    log.With(slog.String("service", "media")),
		maxBytes:  maxBytes,
		namespace: namespace,
	}
}

// Upload stores an inbound file and returns its public URL and kind. Image
// payloads with a Resize intent are resampled to exactly the requested
// dimensions before storage; video is stored unmodified. Nothing is written
// when the payload is oversized or unreadable.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Result, error) {
	if s.provider == nil {
		return Result{}, ErrProviderUnavailable
	}
	if in.Reader == nil {
		return Result{}, fmt.Errorf("%w: no file reader", ErrUnsupportedInput)
	}

	data, err := ReadAllWithLimit(in.Reader, s.maxBytes)
	if err != nil {
		return Result{}, fmt.Errorf("read input: %w", err)
	}
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: empty payload", ErrUnsupportedInput)
	}

	kind := KindFromContentType(in.ContentType)
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if kind == KindImage && in.Resize != nil {
		resized, resizedType, err := resizeCover(data, *in.Resize, contentType)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		data = resized
		contentType = resizedType
	}

	key := path.Join(s.namespace, string(kind), uuid.NewString()+"_"+sanitizeName(in.OriginalName))
	if err := s.provider.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return Result{}, fmt.Errorf("store media: %w", err)
	}

	url := s.provider.PublicURL(key)
	s.logger.Info("media stored",
		slog.String("key", key),
		slog.String("kind", string(kind)),
		slog.Int("bytes", len(data)),
	)
	return Result{URL: url, Kind: kind}, nil
}

// Replace swaps the blob behind a record's media field. The new file is
// uploaded first; only after that succeeds is the old blob deleted, and that
// deletion is best-effort: a record must never end up pointing at nothing
// because housekeeping failed. With no new file, the existing URL is returned
// unchanged (kind inferred from its extension).
func (s *Service) Replace(ctx context.Context, newIn *UploadInput, oldURL string) (Result, error) {
	oldURL = strings.TrimSpace(oldURL)
	if newIn == nil {
		if oldURL == "" {
			return Result{}, ErrNoMediaProvided
		}
		return Result{URL: oldURL, Kind: KindFromURL(oldURL)}, nil
	}

	result, err := s.Upload(ctx, *newIn)
	if err != nil {
		return Result{}, err
	}

	if oldURL != "" {
		if err := s.Delete(ctx, oldURL); err != nil {
			s.logger.Warn("stale blob left behind after replace, sweeper will collect it",
				slog.String("old_url", oldURL),
				slog.String("error", err.Error()),
			)
		}
	}
	return result, nil
}

// Delete removes the blob behind a public URL. An empty URL is a no-op (the
// record simply had no media); a malformed non-empty URL is an error.
func (s *Service) Delete(ctx context.Context, rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}
	if s.provider == nil {
		return ErrProviderUnavailable
	}

	locator, err := storage.ParseURL(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMediaURL, rawURL)
	}
	if err := s.provider.Delete(ctx, locator.Key); err != nil {
		s.logger.Warn("blob deletion failed",
			slog.String("key", locator.Key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s", ErrDeletionFailed, locator.Key)
	}
	s.logger.Info("media deleted", slog.String("key", locator.Key))
	return nil
}

// Namespace returns the key prefix under which this service stores blobs.
func (s *Service) Namespace() string {
	return s.namespace
}

// sanitizeName makes an original filename safe for use inside a storage key.
func sanitizeName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "media"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
