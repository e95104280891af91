// Package output writes rendered instruction pages to a directory.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rampantspark/giftdraw/internal/content"
)

// ErrOutsideDir is returned when a page file name would escape the
// output directory.
var ErrOutsideDir = errors.New("file path is outside output directory")

// Sink is an output directory for instruction pages.
type Sink struct {
	dir    string
	logger *slog.Logger
}

// NewSink creates a sink writing into dir.
func NewSink(dir string, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Clear removes every regular file directly inside the directory.
// Subdirectories and their contents are left alone. A missing directory
// is not an error.
//
// Returns the number of files removed.
func (s *Sink) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list output directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	s.logger.Debug("Cleared output directory", "dir", s.dir, "removed", removed)
	return removed, nil
}

// WriteAll creates the directory if needed and writes one file per page.
//
// Pages sharing a file name (ignoring case) are refused before anything
// is written.
//
// Returns the paths written, in page order.
func (s *Sink) WriteAll(pages []content.Page) ([]string, error) {
	seen := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		key := strings.ToLower(page.FileName)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s", content.ErrFileNameCollision, page.FileName)
		}
		seen[key] = struct{}{}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(pages))
	for _, page := range pages {
		path := filepath.Join(s.dir, page.FileName)
		if err := validateDirPath(s.dir, path); err != nil {
			return paths, err
		}
		if err := os.WriteFile(path, []byte(page.HTML), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", page.FileName, err)
		}
		paths = append(paths, path)
	}
	s.logger.Debug("Wrote instruction pages", "dir", s.dir, "pages", len(paths))
	return paths, nil
}

// validateDirPath checks that filePath names an entry inside dir.
func validateDirPath(dir, filePath string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("cannot resolve output directory: %w", err)
	}
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("cannot resolve file path: %w", err)
	}

	relPath, err := filepath.Rel(absDir, absFilePath)
	if err != nil {
		return fmt.Errorf("cannot determine relative path: %w", err)
	}
	if relPath == "." || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideDir, filePath)
	}
	return nil
}
