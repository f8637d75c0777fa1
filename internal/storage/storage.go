package storage

import "context"

// Store is the object storage collaborator.
type Store interface {
	// Download fetches an object's bytes.
	Download(ctx context.Context, path string) ([]byte, error)
	// Upload writes an object and returns its storage reference.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// PublicURL returns a URL or path the rendering engine can read the
	// object from.
	PublicURL(path string) string
	// Delete removes an object.
	Delete(ctx context.Context, path string) error
}
