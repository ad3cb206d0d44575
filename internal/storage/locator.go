package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURLFormat indicates a media URL matches neither recognized shape.
var ErrInvalidURLFormat = errors.New("invalid media URL format")

// Locator addresses a blob inside the object store, independent of the URL
// convention it was published under.
type Locator struct {
	Bucket string
	Key    string
}

// ParseURL resolves a public media URL back to its storage locator.
//
// Two historical URL shapes are accepted, because persisted records may carry
// either: the download-token form, where the key follows a literal "/o/"
// segment percent-encoded as a single unit, and the bucket-host form, where
// the path is "/<bucket>/<key>". Everything else is rejected.
func ParseURL(raw string) (Locator, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, raw)
	}

	// Use the raw (still-encoded) path: in the token form the key is encoded
	// as one unit, so "%2F" inside it must survive until the final decode.
	escapedPath := parsed.EscapedPath()

	if idx := strings.Index(escapedPath, "/o/"); idx >= 0 {
		encodedKey := escapedPath[idx+len("/o/"):]
		key, err := url.QueryUnescape(encodedKey)
		if err != nil || key == "" {
			return Locator{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, raw)
		}
		return Locator{Bucket: bucketFromTokenPath(escapedPath[:idx]), Key: key}, nil
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, raw)
	}
	return Locator{
		Bucket: segments[0],
		Key:    strings.Join(segments[1:], "/"),
	}, nil
}

// PublicURL renders the locator in the bucket-host form under baseURL.
// This is the only shape the system produces; ParseURL still accepts both.
func (l Locator) PublicURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + l.Bucket + "/" + EncodeKey(l.Key)
}

// EncodeKey percent-encodes each path segment of a storage key, preserving
// the segment separators.
func EncodeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// bucketFromTokenPath extracts the bucket from the "/v0/b/<bucket>" prefix of
// a token-form URL, when present.
func bucketFromTokenPath(prefix string) string {
	segments := strings.Split(strings.Trim(prefix, "/"), "/")
	for i, seg := range segments {
		if seg == "b" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}
