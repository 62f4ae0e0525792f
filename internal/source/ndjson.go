package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dwcexport/internal/observation"
)

const maxLineBytes = 16 * 1024 * 1024

// NDJSON reads one file per provider from a directory. The file is named after
// the provider identifier with an .ndjson or .jsonl extension and holds one
// JSON observation per line. A provider without a file has no records.
type NDJSON struct {
	Dir string
}

// NewNDJSON returns a source reading from dir.
func NewNDJSON(dir string) *NDJSON {
	return &NDJSON{Dir: dir}
}

// Path returns the file holding provider's records, or "" when there is none.
func (s *NDJSON) Path(provider observation.DataProvider) string {
	for _, ext := range []string{".ndjson", ".jsonl"} {
		path := filepath.Join(s.Dir, provider.Identifier+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Batches implements Source.
func (s *NDJSON) Batches(ctx context.Context, provider observation.DataProvider, size int, fn func(Batch) error) error {
	if size <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", size)
	}
	path := s.Path(provider)
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	n := 0
	line := 0
	records := make([]*observation.Observation, 0, size)
	flush := func() error {
		if len(records) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := Batch{ID: BatchID(provider, n), Records: records}
		n++
		records = make([]*observation.Observation, 0, size)
		return fn(batch)
	}

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec observation.Observation
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		if rec.DataProviderID == 0 {
			rec.DataProviderID = provider.ID
		}
		records = append(records, &rec)
		if len(records) == size {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%s line %d exceeds %d bytes", filepath.Base(path), line+1, maxLineBytes)
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return flush()
}
