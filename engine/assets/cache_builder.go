package assets

// CacheOption is a function that configures a cache instance during
// construction.
type CacheOption func(*cache)

// WithWorkers is an option builder that sets the size of the decode worker
// pool. Defaults to 4.
//
// Parameters:
//   - workers: the number of decode workers
//
// Returns:
//   - CacheOption: a function that applies the worker count option to a cache
func WithWorkers(workers int) CacheOption {
	return func(c *cache) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithGeneratedMipmaps is an option builder that enables CPU-side mip chain
// generation for every texture the cache uploads.
//
// Returns:
//   - CacheOption: a function that applies the mipmap option to a cache
func WithGeneratedMipmaps() CacheOption {
	return func(c *cache) {
		c.mipmaps = true
	}
}
