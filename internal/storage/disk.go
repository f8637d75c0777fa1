package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores objects under a root directory on the local filesystem.
type Disk struct {
	root string
}

// NewDisk constructs a disk-backed store rooted at dir.
func NewDisk(dir string) *Disk {
	return &Disk{root: dir}
}

func (d *Disk) resolve(path string) (string, error) {
	cleaned := filepath.Clean("/" + strings.TrimSpace(path))
	if cleaned == "/" {
		return "", fmt.Errorf("storage path required")
	}
	return filepath.Join(d.root, cleaned), nil
}

// Download reads an object's bytes.
func (d *Disk) Download(_ context.Context, path string) ([]byte, error) {
	resolved, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	return data, nil
}

// Upload writes an object, creating parent directories as needed. The
// content type is accepted for interface parity and ignored on disk.
func (d *Disk) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	resolved, err := d.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return path, nil
}

// PublicURL returns the absolute filesystem path for an object, which the
// rendering engine reads directly in local deployments.
func (d *Disk) PublicURL(path string) string {
	resolved, err := d.resolve(path)
	if err != nil {
		return ""
	}
	return resolved
}

// Delete removes an object. Deleting a missing object is not an error.
func (d *Disk) Delete(_ context.Context, path string) error {
	resolved, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

var _ Store = (*Disk)(nil)
