package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/logger"
)

const (
	cacheSubdir   = "copilot/pdfs"
	partialSuffix = ".part"
	metaSuffix    = ".meta"

	// DefaultFreshFor is how long a cached PDF is used without revalidation.
	DefaultFreshFor = 10 * time.Minute
)

// Source downloads PDF bytes with ETag revalidation.
type Source interface {
	FetchPDF(ctx context.Context, docID, etag string) (body io.ReadCloser, newETag string, notModified bool, err error)
}

// Cache keeps downloaded PDFs on disk keyed by document id.
type Cache struct {
	dir      string
	source   Source
	freshFor time.Duration
	now      func() time.Time

	mu sync.Mutex // serialises downloads so two renders never write the same file
}

type cacheMeta struct {
	DocID    string    `json:"docId"`
	ETag     string    `json:"etag"`
	CachedAt time.Time `json:"cachedAt"`
	Size     int64     `json:"size"`
}

// DefaultCacheDir returns the PDF cache directory under the user cache dir.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "copilot-cache")
	}
	return filepath.Join(base, cacheSubdir)
}

// NewCache creates a cache in dir, or DefaultCacheDir when dir is empty.
func NewCache(dir string, source Source) (*Cache, error) {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, source: source, freshFor: DefaultFreshFor, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Fetch returns the path of docID's PDF, downloading or revalidating it when
// the cached copy is older than freshFor. A cached copy is served when the
// backend cannot be reached.
func (c *Cache) Fetch(ctx context.Context, docID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pdfPath, metaPath, partialPath := c.pathsFor(docID)
	meta, _ := readMeta(metaPath)
	info, statErr := os.Stat(pdfPath)
	cached := statErr == nil && info.Size() > 0

	if cached && c.now().Sub(meta.CachedAt) < c.freshFor {
		return pdfPath, nil
	}

	etag := ""
	if cached {
		etag = meta.ETag
	}
	path, err := c.download(ctx, docID, etag, pdfPath, metaPath, partialPath, meta)
	if err == nil {
		return path, nil
	}
	if cached {
		logger.Warn("viewer: using cached %s after fetch failed: %v", docID, err)
		return pdfPath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, docID, etag, pdfPath, metaPath, partialPath string, meta cacheMeta) (string, error) {
	body, newETag, notModified, err := c.source.FetchPDF(ctx, docID, etag)
	if err != nil {
		return "", err
	}
	if notModified {
		meta.CachedAt = c.now().UTC()
		if err := writeMeta(metaPath, meta); err != nil {
			return "", err
		}
		return pdfPath, nil
	}
	defer body.Close()

	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	size, err := io.Copy(file, body)
	if err != nil {
		file.Close()
		_ = os.Remove(partialPath)
		return "", fmt.Errorf("download %s: %w", docID, err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, pdfPath); err != nil {
		return "", err
	}

	meta = cacheMeta{DocID: docID, ETag: newETag, CachedAt: c.now().UTC(), Size: size}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	logger.Debug("viewer: cached %s (%d bytes)", docID, size)
	return pdfPath, nil
}

// Evict removes docID from the cache.
func (c *Cache) Evict(docID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range []string{c.pdfPath(docID), c.metaPath(docID)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *Cache) pathsFor(docID string) (string, string, string) {
	key := sanitizeKey(docID)
	return filepath.Join(c.dir, key+".pdf"), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func (c *Cache) pdfPath(docID string) string {
	p, _, _ := c.pathsFor(docID)
	return p
}

func (c *Cache) metaPath(docID string) string {
	_, m, _ := c.pathsFor(docID)
	return m
}

func sanitizeKey(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "/", "-")
	value = strings.ReplaceAll(value, "\\", "-")
	value = strings.ReplaceAll(value, ":", "-")
	value = strings.ReplaceAll(value, "..", "-")
	return value
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
