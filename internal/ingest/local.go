package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyLocal copies src to dst, creating dst's parent directories and
// keeping src's permission bits. dst is replaced atomically.
func CopyLocal(src, dst string) (int64, error) {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return 0, fmt.Errorf("%w: source and destination are required", ErrInvalidArgument)
	}
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: source %s is a directory", ErrInvalidArgument, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	n, err := writeAtomic(dst, f)
	if err != nil {
		return 0, err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, fmt.Errorf("chmod destination: %w", err)
	}
	return n, nil
}

// writeAtomic streams r into a temp file beside path and renames it into
// place. Parent directories are created.
func writeAtomic(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create parent dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		cleanup()
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	// CreateTemp opens with 0600
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		cleanup()
		return 0, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		cleanup()
		return 0, fmt.Errorf("atomic rename: %w", err)
	}
	return n, nil
}
