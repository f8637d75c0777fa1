package render

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"capforge/internal/services"
)

// BundleCache memoizes the engine's project bundle. Bundling is the
// expensive step of a render, and the bundle stays valid for the life of
// the process, so a single slot per project directory suffices. The cache
// revalidates the stored location before reuse in case a cleanup job
// removed it.
type BundleCache struct {
	mu         sync.Mutex
	projectDir string
	location   string
}

// NewBundleCache creates an empty cache.
func NewBundleCache() *BundleCache {
	return &BundleCache{}
}

// Location returns the bundle location for projectDir, bundling on first
// use or whenever the cached bundle no longer exists on disk. Concurrent
// callers serialize so the engine bundles at most once.
func (c *BundleCache) Location(ctx context.Context, engine Engine, projectDir string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.location != "" && c.projectDir == projectDir {
		if _, err := os.Stat(c.location); err == nil {
			return c.location, nil
		}
		c.location = ""
	}

	entryPoint, err := resolveEntryPoint(projectDir)
	if err != nil {
		return "", err
	}
	location, err := engine.Bundle(ctx, entryPoint)
	if err != nil {
		return "", services.Wrap(services.ErrRender, "render", "bundle", entryPoint, err)
	}
	c.projectDir = projectDir
	c.location = location
	return location, nil
}

// Invalidate drops the cached bundle so the next render rebuilds it.
func (c *BundleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.location = ""
	c.projectDir = ""
}

// resolveEntryPoint locates the compositing project's entry point,
// preferring the source tree over a compiled fallback.
func resolveEntryPoint(projectDir string) (string, error) {
	candidates := []string{
		filepath.Join(projectDir, "src", "index.ts"),
		filepath.Join(projectDir, "dist", "index.js"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "render", "resolve entry point",
		"no composition entry point under "+projectDir, nil)
}
