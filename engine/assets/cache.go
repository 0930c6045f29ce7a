package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
)

// cache is the implementation of the Cache interface.
type cache struct {
	mu     sync.Mutex
	device gfx.Device

	// pool manages a bounded set of reusable goroutines for file decode work.
	// Decoding stays off the render thread; device uploads never do.
	pool    worker.DynamicWorkerPool
	workers int
	taskID  int

	mipmaps bool

	textures map[string]*Handle[texture.Texture]
	uploads  []pendingUpload
}

// pendingUpload is a decoded image waiting for its device upload on the
// render thread.
type pendingUpload struct {
	handle *Handle[texture.Texture]
	img    *image.RGBA
	path   string
}

// Cache loads textures from disk asynchronously. LoadTexture returns a
// pending Handle immediately and schedules the file decode on a worker pool;
// the decoded pixels are uploaded to the device on the next Update call,
// which must run on the render thread. Loaded textures are owned by the
// cache and disposed by Release, never by the materials referencing them.
type Cache interface {
	// LoadTexture retrieves the handle for the texture at the given path,
	// scheduling an async load on first request. Repeated requests for the
	// same path return the same handle.
	//
	// Parameters:
	//   - path: filesystem path of a PNG or JPEG image
	//
	// Returns:
	//   - *Handle[texture.Texture]: the lazily-resolving texture reference
	LoadTexture(path string) *Handle[texture.Texture]

	// LoadTextureImage registers an already-decoded image under the given
	// name. The upload still happens on the next Update call; repeated
	// requests for the same name return the same handle without re-staging.
	//
	// Parameters:
	//   - name: the cache key for the texture
	//   - img: the decoded image to upload
	//
	// Returns:
	//   - *Handle[texture.Texture]: the lazily-resolving texture reference
	LoadTextureImage(name string, img image.Image) *Handle[texture.Texture]

	// Texture retrieves the handle registered under the given name or path
	// without scheduling anything.
	//
	// Parameters:
	//   - name: the cache key used at load time
	//
	// Returns:
	//   - *Handle[texture.Texture]: the handle, or nil when never requested
	Texture(name string) *Handle[texture.Texture]

	// Update uploads every decode completed since the last call to the
	// device and resolves the corresponding handles. Must be called on the
	// render thread.
	//
	// Returns:
	//   - int: the number of handles resolved or failed this call
	Update() int

	// Pending reports how many loads have been requested but not yet
	// resolved or failed.
	//
	// Returns:
	//   - int: the outstanding load count
	Pending() int

	// Release disposes every loaded texture and forgets all handles. The
	// cache is not usable afterwards.
	Release()
}

var _ Cache = &cache{}

// NewCache creates a new asset Cache bound to the given device, configured
// with the provided options.
//
// Parameters:
//   - device: the device textures are uploaded to
//   - options: variadic list of CacheOption functions to configure the cache
//
// Returns:
//   - Cache: a new Cache instance
func NewCache(device gfx.Device, options ...CacheOption) Cache {
	c := &cache{
		device:   device,
		workers:  4,
		textures: make(map[string]*Handle[texture.Texture]),
	}
	for _, opt := range options {
		opt(c)
	}
	c.pool = worker.NewDynamicWorkerPool(c.workers, 64, 1*time.Second)
	return c
}

func (c *cache) LoadTexture(path string) *Handle[texture.Texture] {
	c.mu.Lock()
	if h, ok := c.textures[path]; ok {
		c.mu.Unlock()
		return h
	}
	h := NewPendingHandle[texture.Texture]()
	c.textures[path] = h
	id := c.taskID
	c.taskID++
	c.mu.Unlock()

	c.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			img, err := decodeImageFile(path)
			if err != nil {
				log.Printf("[Assets] failed to decode %q: %v", path, err)
				h.Fail(err)
				return nil, err
			}
			c.mu.Lock()
			c.uploads = append(c.uploads, pendingUpload{handle: h, img: img, path: path})
			c.mu.Unlock()
			return nil, nil
		},
	})
	return h
}

func (c *cache) LoadTextureImage(name string, img image.Image) *Handle[texture.Texture] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.textures[name]; ok {
		return h
	}
	h := NewPendingHandle[texture.Texture]()
	c.textures[name] = h

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	c.uploads = append(c.uploads, pendingUpload{handle: h, img: rgba, path: name})
	return h
}

func (c *cache) Texture(name string) *Handle[texture.Texture] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.textures[name]
}

func (c *cache) Update() int {
	c.mu.Lock()
	uploads := c.uploads
	c.uploads = nil
	mipmaps := c.mipmaps
	c.mu.Unlock()

	for _, u := range uploads {
		opts := []texture.TextureOption{texture.WithImage(u.img)}
		if mipmaps {
			opts = append(opts, texture.WithMipmaps())
		}
		tex := texture.NewTexture(c.device, opts...)
		if !tex.IsValid() {
			u.handle.Fail(fmt.Errorf("device rejected texture %q", u.path))
			continue
		}
		u.handle.Resolve(tex)
	}
	return len(uploads)
}

func (c *cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := 0
	for _, h := range c.textures {
		if !h.Ready() && h.Err() == nil {
			pending++
		}
	}
	return pending
}

func (c *cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.textures {
		if tex, ok := h.Value(); ok {
			tex.Dispose()
		}
	}
	c.textures = make(map[string]*Handle[texture.Texture])
	c.uploads = nil
}

// decodeImageFile opens and decodes an image file into tightly-packed RGBA.
func decodeImageFile(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}
