package spritefield

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrAssetNotFound is returned by fetchers when a path does not exist.
var ErrAssetNotFound = errors.New("spritefield: asset not found")

// Fetcher retrieves raw vector markup for an asset path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch calls f(ctx, path).
func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// maxAssetSize caps a single fetched document.
const maxAssetSize = 8 << 20

// HTTPFetcher resolves asset paths against a base URL.
type HTTPFetcher struct {
	BaseURL string
	// Client defaults to a client with a 15 second timeout.
	Client *http.Client
}

var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	u, err := url.JoinPath(f.BaseURL, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}
	client := f.Client
	if client == nil {
		client = defaultHTTPClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %q: %w", path, ErrAssetNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch %q: unexpected status %s", path, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}
	return body, nil
}

// FSFetcher reads assets from a file system such as os.DirFS or embed.FS.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "/")
	data, err := fs.ReadFile(f.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("fetch %q: %w", path, ErrAssetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}
	return data, nil
}

// AssetFuture is a shared handle to one asset load. Every caller asking for
// the same in-flight path receives the same future.
type AssetFuture struct {
	done  chan struct{}
	asset *VectorAsset
	err   error
}

func newResolvedFuture(a *VectorAsset, err error) *AssetFuture {
	f := &AssetFuture{done: make(chan struct{}), asset: a, err: err}
	close(f.done)
	return f
}

// Done is closed once the load has finished.
func (f *AssetFuture) Done() <-chan struct{} { return f.done }

// Ready reports whether the load has finished, without blocking.
func (f *AssetFuture) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the load finishes or ctx is done. Cancelling ctx only
// stops the wait; the load itself keeps running and still fills the cache.
func (f *AssetFuture) Wait(ctx context.Context) (*VectorAsset, error) {
	select {
	case <-f.done:
		return f.asset, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AssetCache loads, normalizes and caches vector assets keyed by path.
// Concurrent requests for the same path share one fetch. Entries live until
// Clear; failed paths are remembered and not retried.
type AssetCache struct {
	fetcher Fetcher
	// Loads run detached from any caller's context.
	ctx context.Context

	mu       sync.Mutex
	entries  map[string]*VectorAsset
	inflight map[string]*AssetFuture
	failed   map[string]error
	// generation invalidates loads that complete after Clear.
	generation uint64

	// PreloadLimit bounds concurrent loads started by Preload.
	PreloadLimit int
}

// NewAssetCache returns an empty cache backed by fetcher.
func NewAssetCache(fetcher Fetcher) *AssetCache {
	return &AssetCache{
		fetcher:      fetcher,
		ctx:          context.Background(),
		entries:      make(map[string]*VectorAsset),
		inflight:     make(map[string]*AssetFuture),
		failed:       make(map[string]error),
		PreloadLimit: 4,
	}
}

// Get returns the cached asset for path without blocking or loading.
func (c *AssetCache) Get(path string) (*VectorAsset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[path]
	return a, ok
}

// Failed reports whether a previous load of path failed.
func (c *AssetCache) Failed(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.failed[path]
	return ok
}

// GetOrLoad returns a future for path. A cached or previously failed path
// returns a resolved future; a path already loading returns the in-flight
// future; otherwise a load is started in the background.
func (c *AssetCache) GetOrLoad(path string) *AssetFuture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.entries[path]; ok {
		return newResolvedFuture(a, nil)
	}
	if err, ok := c.failed[path]; ok {
		return newResolvedFuture(nil, err)
	}
	if f, ok := c.inflight[path]; ok {
		return f
	}
	f := &AssetFuture{done: make(chan struct{})}
	c.inflight[path] = f
	go c.load(path, f, c.generation)
	return f
}

func (c *AssetCache) load(path string, f *AssetFuture, gen uint64) {
	start := time.Now()
	asset, err := c.fetchAndNormalize(path)

	c.mu.Lock()
	if c.generation == gen {
		delete(c.inflight, path)
		if err != nil {
			c.failed[path] = err
		} else {
			c.entries[path] = asset
		}
	}
	c.mu.Unlock()

	f.asset, f.err = asset, err
	close(f.done)

	if err != nil {
		Logger().Error("asset load failed", "path", path, "err", err)
		return
	}
	Logger().Info("asset loaded", "path", path, "aspect", asset.Aspect,
		"normalized", asset.Normalized, "elapsed", time.Since(start))
}

func (c *AssetCache) fetchAndNormalize(path string) (asset *VectorAsset, err error) {
	defer func() {
		if r := recover(); r != nil {
			asset, err = nil, fmt.Errorf("load %q: panic: %v", path, r)
		}
	}()
	if c.fetcher == nil {
		return nil, fmt.Errorf("load %q: no fetcher configured", path)
	}
	raw, err := c.fetcher.Fetch(c.ctx, path)
	if err != nil {
		return nil, err
	}
	asset, err = NormalizeSVG(raw)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	asset.Source = path
	return asset, nil
}

// Preload loads every path and waits for all of them, running at most
// PreloadLimit loads at once. Individual failures are logged and cached as
// failed; the returned error is non-nil only when ctx ends first.
func (c *AssetCache) Preload(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.PreloadLimit, 1))
	for _, p := range paths {
		g.Go(func() error {
			_, err := c.GetOrLoad(p).Wait(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				Logger().Debug("preload skipped asset", "path", p, "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Clear forgets every cached asset and failure. Loads still in flight
// complete for their waiters but are not inserted.
func (c *AssetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*VectorAsset)
	c.inflight = make(map[string]*AssetFuture)
	c.failed = make(map[string]error)
	c.generation++
}

// Generation counts Clear calls. Holders of derived data compare it to
// notice an eviction.
func (c *AssetCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Len returns the number of cached assets.
func (c *AssetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
