package media

import "errors"

var (
	// ErrPayloadTooLarge indicates the payload exceeds the configured max media size.
	ErrPayloadTooLarge = errors.New("media payload too large")
	// ErrUnsupportedInput indicates the inbound file is missing, empty, or not decodable.
	ErrUnsupportedInput = errors.New("unsupported media input")
	// ErrNoMediaProvided indicates a replace was requested with neither a new file nor an existing URL.
	ErrNoMediaProvided = errors.New("no media provided")
	// ErrInvalidMediaURL indicates a non-empty media URL matches neither recognized format.
	ErrInvalidMediaURL = errors.New("invalid media URL")
	// ErrDeletionFailed indicates the object store refused to delete a blob.
	ErrDeletionFailed = errors.New("media deletion failed")
	// ErrProviderUnavailable indicates the storage provider is not configured.
	ErrProviderUnavailable = errors.New("storage provider unavailable")
)
