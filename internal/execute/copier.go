package execute

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/franz/photo-janitor/internal/plan"
	"github.com/franz/photo-janitor/internal/util"
)

// Copier copies media files and their sidecars into the output tree.
type Copier struct {
	dryRun     bool
	bufferSize int
}

// Config holds copier configuration
type Config struct {
	DryRun     bool
	BufferSize int // Buffer size for file copying (0 = use default)
}

// New creates a new Copier
func New(cfg *Config) *Copier {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BufferSize <= 0 {
		// 128KB works well for both local disks and network storage
		cfg.BufferSize = 128 * 1024
	}
	return &Copier{
		dryRun:     cfg.DryRun,
		bufferSize: cfg.BufferSize,
	}
}

// CopyWithSidecar copies a media file to destPath, resolving name
// collisions first, and brings its sidecar along as <destName>.json.
// Returns the actual destination (post collision-rename) and the media
// bytes written. Sidecar copy failures are logged, not fatal; the
// sidecar is a convenience copy.
func (c *Copier) CopyWithSidecar(ctx context.Context, mediaPath, sidecarPath, destPath string) (string, int64, error) {
	destPath = plan.ResolveCollision(destPath)

	if c.dryRun {
		util.DebugLog("DRY-RUN: Would copy %s -> %s", mediaPath, destPath)
		size, _, err := util.GetFileMetadata(mediaPath)
		if err != nil {
			return destPath, 0, nil
		}
		return destPath, size, nil
	}

	bytesWritten, err := c.copyFile(ctx, mediaPath, destPath)
	if err != nil {
		return destPath, 0, err
	}

	if sidecarPath != "" {
		sidecarDest := destPath + ".json"
		if _, err := c.copyFile(ctx, sidecarPath, sidecarDest); err != nil {
			util.WarnLog("Failed to copy sidecar %s: %v", sidecarPath, err)
		}
	}

	return destPath, bytesWritten, nil
}

// copyFile copies a file atomically using a .part temporary file
func (c *Copier) copyFile(ctx context.Context, srcPath, destPath string) (int64, error) {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	tempPath := destPath + ".part"
	dest, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	bytesWritten, err := copyWithContext(ctx, dest, src, c.bufferSize)
	dest.Close()

	if err != nil {
		os.Remove(tempPath) // Clean up on error
		return 0, fmt.Errorf("failed to copy: %w", err)
	}

	// Atomic rename so a crash never leaves a half-written file under
	// the final name
	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to rename: %w", err)
	}

	util.DebugLog("Copied: %s -> %s", srcPath, destPath)
	return bytesWritten, nil
}

// copyWithContext copies data with context cancellation support
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader, bufferSize int) (int64, error) {
	if bufferSize <= 0 {
		bufferSize = 128 * 1024
	}

	buf := make([]byte, bufferSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[0:nr])
			if nw < 0 || nr < nw {
				nw = 0
				if ew == nil {
					ew = fmt.Errorf("invalid write result")
				}
			}
			written += int64(nw)
			if ew != nil {
				return written, ew
			}
			if nr != nw {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if er != io.EOF {
				return written, er
			}
			break
		}
	}
	return written, nil
}
