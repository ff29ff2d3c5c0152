package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/internal/extract"
)

// WriteQuarantine writes the broken rows of one entity to a timestamped
// CSV file. The header is the sorted union of the rows' keys plus a
// trailing Reason column, since broken rows rarely share the schema that
// rejected them.
func (s *Store) WriteQuarantine(rows []extract.BrokenRow, name string, now time.Time) (string, error) {
	path := s.stampedPath(FolderQuarantine, name, "csv", now)

	keys := make(map[string]struct{})
	for _, row := range rows {
		for key := range row.Fields {
			keys[key] = struct{}{}
		}
	}
	header := make([]string, 0, len(keys)+1)
	for key := range keys {
		header = append(header, key)
	}
	sort.Strings(header)
	header = append(header, "Reason")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create quarantine file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write quarantine header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, 0, len(header))
		for _, key := range header[:len(header)-1] {
			if v, ok := row.Fields[key]; ok {
				record = append(record, fmt.Sprintf("%v", v))
			} else {
				record = append(record, "")
			}
		}
		record = append(record, row.Reason)
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write quarantine row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush quarantine file: %w", err)
	}

	s.logger.Info("Quarantine file written",
		zap.String("path", path),
		zap.Int("rows", len(rows)))
	return path, nil
}
