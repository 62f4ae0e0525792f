package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CreateTemp opens a hidden temporary file next to dst, so a later rename onto
// dst stays on one filesystem.
func CreateTemp(dst string) (*os.File, error) {
	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.CreateTemp(dir, "."+name+".tmp-*")
}

// Replace atomically moves the finished temporary file tmp onto dst.
func Replace(tmp, dst string) error {
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(dst), err)
	}
	return nil
}

// Concat copies the files at paths, in order, to w and returns the byte count.
func Concat(w io.Writer, paths ...string) (int64, error) {
	var total int64
	for _, path := range paths {
		n, err := copyFrom(w, path)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func copyFrom(w io.Writer, path string) (int64, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	return io.Copy(w, in)
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// The copy is written to a temporary file and only renamed onto dst once it
// verifies, so dst is never left half-written.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := CreateTemp(dst)
	if err != nil {
		return err
	}
	tmp := out.Name()
	defer func() {
		_ = out.Close()
		_ = os.Remove(tmp)
	}()

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if written != srcSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if err := verifyWritten(tmp, srcSize, srcHasher.Sum(nil)); err != nil {
		return err
	}

	return Replace(tmp, dst)
}

// verifyWritten re-reads path from disk and compares it with the expected size
// and SHA-256 sum.
func verifyWritten(path string, size int64, sum []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen copy: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if n != size {
		return fmt.Errorf("copy size mismatch: expected %d bytes, found %d on disk", size, n)
	}
	if !bytes.Equal(h.Sum(nil), sum) {
		return fmt.Errorf("copy hash mismatch: %s differs from its source", path)
	}
	return nil
}
