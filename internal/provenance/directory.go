package provenance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dwcexport/internal/fileutil"
)

// Directory reads <identifier>.xml files from a directory.
type Directory struct {
	Dir string
}

// NewDirectory returns a directory-backed source.
func NewDirectory(dir string) *Directory {
	return &Directory{Dir: dir}
}

// Path returns where the document for identifier lives.
func (d *Directory) Path(identifier string) string {
	return filepath.Join(d.Dir, identifier+".xml")
}

// Document implements Source.
func (d *Directory) Document(ctx context.Context, identifier string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.ContainsAny(identifier, `/\`) || strings.TrimSpace(identifier) == "" {
		return nil, fmt.Errorf("invalid provider identifier %q", identifier)
	}
	data, err := os.ReadFile(d.Path(identifier))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read eml for %s: %w", identifier, err)
	}
	return data, nil
}

// Put stores a document for identifier, replacing any previous one atomically.
func (d *Directory) Put(identifier string, doc []byte) error {
	path := d.Path(identifier)
	tmp, err := fileutil.CreateTemp(path)
	if err != nil {
		return err
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write eml for %s: %w", identifier, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return fileutil.Replace(tmp.Name(), path)
}

// Close implements Source.
func (d *Directory) Close(context.Context) error { return nil }
