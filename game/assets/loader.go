// Package assets loads the raster images the game is composed from and provides
// the small set of image operations the core needs: opaque bounds, scaling,
// rotation, rectangle fills and digit rendering.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrInvalidAsset  = errors.New("invalid asset")
)

// Loader loads an image by path relative to the game data directory
type Loader interface {
	Image(path string) (image.Image, error)
}

// FileLoader loads and caches images from a root directory
type FileLoader struct {
	root   string
	images map[string]image.Image
	mu     sync.RWMutex
}

// NewFileLoader creates a loader rooted at dir
func NewFileLoader(dir string) (*FileLoader, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("asset directory does not exist: %s", dir)
	}

	return &FileLoader{
		root:   dir,
		images: make(map[string]image.Image),
	}, nil
}

// Root returns the directory the loader reads from
func (l *FileLoader) Root() string {
	return l.root
}

// Image returns the decoded image at path, loading it on first use.
// Cached images are shared; callers must not draw into them.
func (l *FileLoader) Image(path string) (image.Image, error) {
	l.mu.RLock()
	if img, exists := l.images[path]; exists {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if img, exists := l.images[path]; exists {
		return img, nil
	}

	f, err := os.Open(filepath.Join(l.root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAsset, path, err)
	}

	l.images[path] = img
	return img, nil
}

// Exists reports whether an asset file is present without decoding it
func (l *FileLoader) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(l.root, path))
	return err == nil
}

// MemoryLoader serves images from a map. Used by tools and tests that build
// scenes without touching the filesystem.
type MemoryLoader map[string]image.Image

// Image returns the image stored under path
func (m MemoryLoader) Image(path string) (image.Image, error) {
	img, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	return img, nil
}

// Exists reports whether path is present
func (m MemoryLoader) Exists(path string) bool {
	_, ok := m[path]
	return ok
}
