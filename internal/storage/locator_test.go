package storage

import (
	"errors"
	"testing"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{
			name:       "bucket host form",
			raw:        "https://cdn.example.com/site-media/stall-craft/image/abc_photo.jpg",
			wantBucket: "site-media",
			wantKey:    "stall-craft/image/abc_photo.jpg",
		},
		{
			name:       "bucket host form with encoded segment",
			raw:        "https://cdn.example.com/site-media/stall-craft/image/two%20words.jpg",
			wantBucket: "site-media",
			wantKey:    "stall-craft/image/two words.jpg",
		},
		{
			name:       "token form with encoded slashes",
			raw:        "https://files.example.com/v0/b/site-media/o/stall-craft%2Fimage%2Fabc.jpg?alt=media&token=xyz",
			wantBucket: "site-media",
			wantKey:    "stall-craft/image/abc.jpg",
		},
		{
			name:       "token form without bucket prefix",
			raw:        "https://files.example.com/o/stall-craft%2Fvideo%2Fclip.mp4",
			wantBucket: "",
			wantKey:    "stall-craft/video/clip.mp4",
		},
		{
			name:    "token form with empty key",
			raw:     "https://files.example.com/v0/b/site-media/o/",
			wantErr: true,
		},
		{
			name:    "missing key segment",
			raw:     "https://cdn.example.com/site-media",
			wantErr: true,
		},
		{
			name:    "no scheme",
			raw:     "cdn.example.com/site-media/key.jpg",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				if !errors.Is(err, ErrInvalidURLFormat) {
					t.Fatalf("expected ErrInvalidURLFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Bucket != tt.wantBucket {
				t.Fatalf("bucket = %q, want %q", got.Bucket, tt.wantBucket)
			}
			if got.Key != tt.wantKey {
				t.Fatalf("key = %q, want %q", got.Key, tt.wantKey)
			}
		})
	}
}

func TestPublicURLRoundTrip(t *testing.T) {
	t.Parallel()

	locator := Locator{Bucket: "site-media", Key: "stall-craft/image/two words.jpg"}
	raw := locator.PublicURL("https://cdn.example.com/")

	want := "https://cdn.example.com/site-media/stall-craft/image/two%20words.jpg"
	if raw != want {
		t.Fatalf("url = %q, want %q", raw, want)
	}

	parsed, err := ParseURL(raw)
	if err != nil {
		t.Fatalf("parse produced url: %v", err)
	}
	if parsed != locator {
		t.Fatalf("round trip = %+v, want %+v", parsed, locator)
	}
}

func TestEncodeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"plain/key.jpg", "plain/key.jpg"},
		{"with space/a b.jpg", "with%20space/a%20b.jpg"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := EncodeKey(tt.key); got != tt.want {
			t.Fatalf("EncodeKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
