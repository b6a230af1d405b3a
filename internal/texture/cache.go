package texture

import (
	"image"
	"sync"

	"tube-renderer/internal/logging"
)

// Resolver resolves a scene's texture name to a decoded image, or nil.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache decodes each indexed texture file at most once and shares the image
// between scenes. Workers asking for a texture that is still loading wait for
// that load instead of decoding it again. Failed loads are remembered as nil.
type Cache struct {
	index *Index

	mu    sync.Mutex
	files map[string]*cachedFile // keyed by resolved path
}

type cachedFile struct {
	once sync.Once
	img  *image.NRGBA
}

// NewCache creates a cache over index.
func NewCache(index *Index) *Cache {
	return &Cache{index: index, files: make(map[string]*cachedFile)}
}

// Resolve returns the texture for texName. Names that differ only in case,
// directory or extension share one entry.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	c.mu.Lock()
	f, ok := c.files[path]
	if !ok {
		f = &cachedFile{}
		c.files[path] = f
	}
	c.mu.Unlock()

	f.once.Do(func() {
		img, err := LoadTexture(path)
		if err != nil {
			logging.Logger().Warn("texture: load failed", "name", texName, "err", err)
			return
		}
		f.img = img
	})
	return f.img
}

// Warm loads the distinct textures named by a scene list up front and
// returns the names that did not resolve.
func (c *Cache) Warm(names []string) (missing []string) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if c.Resolve(name) == nil {
			missing = append(missing, name)
		}
	}
	return missing
}
