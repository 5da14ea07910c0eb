// Package local implements the asset host on a local directory.
// Generated images are copied under the assets directory and addressed by
// a file:// URL. A production deployment swaps this adapter for a CDN
// client behind the same port.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
)

// Ensure AssetHost implements the interface.
var _ driven.AssetHost = (*AssetHost)(nil)

// AssetHost copies uploaded files into a local directory.
type AssetHost struct {
	dir string
}

// NewAssetHost creates an asset host rooted at dir.
// If dir is empty, defaults to ~/.snapshop/assets.
func NewAssetHost(dir string) (*AssetHost, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".snapshop", "assets")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating assets directory: %w", err)
	}

	return &AssetHost{dir: dir}, nil
}

// Upload copies the file at path into the assets directory under name and
// returns a file:// URL to it. The source file is left untouched; its
// lifecycle belongs to the caller.
func (h *AssetHost) Upload(_ context.Context, path, name string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(h.dir, filepath.Base(name))
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", fmt.Errorf("copy asset: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("flush asset: %w", err)
	}

	return "file://" + dstPath, nil
}
