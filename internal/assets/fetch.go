// Package assets resolves config and texture sources to local files.
package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
)

// Fetcher downloads non-local sources into a cache directory. Any source
// go-getter understands works: http(s), s3, gcs, git and file URLs.
type Fetcher struct {
	CacheDir string
}

// NewFetcher uses dir, or a directory under the user cache when dir is empty.
func NewFetcher(dir string) (*Fetcher, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "voxelterrain")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Fetcher{CacheDir: dir}, nil
}

// Local returns a readable local path for src. Existing local files are
// returned unchanged; everything else is fetched once per source string.
func (f *Fetcher) Local(ctx context.Context, src string) (string, error) {
	if src == "" {
		return "", nil
	}
	if st, err := os.Stat(src); err == nil && !st.IsDir() {
		return src, nil
	}

	dst := filepath.Join(f.CacheDir, cacheName(src))
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}
	if err := getter.GetFile(dst, src, getter.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("fetch %s: %w", src, err)
	}
	return dst, nil
}

// cacheName keeps the source's base name for readability and prefixes a
// hash of the full source so different URLs never collide.
func cacheName(src string) string {
	sum := sha1.Sum([]byte(src))
	return hex.EncodeToString(sum[:6]) + "-" + path.Base(src)
}
