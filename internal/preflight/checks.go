package preflight

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"dwcexport/internal/config"
	"dwcexport/internal/provenance"
	"dwcexport/internal/source/elastic"
)

// CheckElasticsearch verifies that the observation cluster answers.
// It uses a 10-second timeout and a single attempt.
func CheckElasticsearch(ctx context.Context, cfg config.Elasticsearch) Result {
	const name = "Elasticsearch"

	src, err := elastic.New(cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := src.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (index %s)", cfg.URL, cfg.Index)}
}

// CheckMongo verifies that the provenance database answers.
func CheckMongo(ctx context.Context, cfg config.Mongo) Result {
	const name = "MongoDB"

	src, err := provenance.NewMongo(ctx, cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer src.Close(context.Background())
	if err := src.Ping(ctx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s.%s reachable", cfg.Database, cfg.Collection)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckVerbatimSource verifies that a pre-built archive exists and is a readable zip.
func CheckVerbatimSource(name, path string) Result {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer zr.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", path, len(zr.File))}
}

// summarizeError produces a human-readable summary for service check failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (service unreachable)"
	}
	return err.Error()
}
