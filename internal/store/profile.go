package store

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/internal/profile"
)

// WriteProfile renders a profile report to a timestamped HTML file.
func (s *Store) WriteProfile(report *profile.Report, name string, now time.Time) (string, error) {
	path := s.stampedPath(FolderProfiles, name, "html", now)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create profile report: %w", err)
	}
	defer f.Close()
	if err := report.Render(f); err != nil {
		return "", err
	}
	s.logger.Info("Profile report written", zap.String("path", path))
	return path, nil
}
