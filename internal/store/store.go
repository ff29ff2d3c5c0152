// Package store persists pipeline stage outputs to timestamped files
// under the data root and reads the most recent snapshot back.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/internal/util"
)

// Folder names under the data root, one per pipeline stage.
const (
	FolderRaw        = "raw_data"
	FolderQuarantine = "quarantine_data"
	FolderCurated    = "curated_data"
	FolderConsumable = "consumable_data"
	FolderProfiles   = "data_profiles"
)

// timestampLayout is the leading filename token. Lexical order equals
// chronological order, which is what reading the latest file relies on.
const timestampLayout = "20060102T150405.000000000"

// Store reads and writes stage files under a single data root.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore creates a store rooted at root, creating the stage folders.
func NewStore(root string) (*Store, error) {
	for _, folder := range []string{FolderRaw, FolderQuarantine, FolderCurated, FolderConsumable, FolderProfiles} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data folder: %w", err)
		}
	}
	return &Store{root: root, logger: util.GetLogger()}, nil
}

// RawPath returns the path of an entity's raw input file.
func (s *Store) RawPath(name string) string {
	return filepath.Join(s.root, FolderRaw, name+".json")
}

// stampedPath builds "<folder>/<timestamp>_<name>.<ext>" under the root.
func (s *Store) stampedPath(folder, name, ext string, now time.Time) string {
	file := fmt.Sprintf("%s_%s.%s", now.UTC().Format(timestampLayout), name, ext)
	return filepath.Join(s.root, folder, file)
}

// latestPath finds the newest "<timestamp>_<name>.<ext>" file in folder.
func (s *Store) latestPath(folder, name, ext string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, folder))
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", folder, err)
	}
	suffix := fmt.Sprintf("_%s.%s", name, ext)
	latest := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		if !strings.HasSuffix(file, suffix) {
			continue
		}
		// Timestamp prefixes sort lexically, newest last.
		if file > latest {
			latest = file
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no %s file for %s", ext, name)
	}
	return filepath.Join(s.root, folder, latest), nil
}
