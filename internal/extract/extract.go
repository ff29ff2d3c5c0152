// Package extract reads line-delimited JSON entity files, cleans each
// line and classifies it as valid or broken against the entity schema.
package extract

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/internal/entity"
	"github.com/NFIT95/data-pipeline/internal/table"
	"github.com/NFIT95/data-pipeline/internal/util"
)

// BrokenRow is a raw record that failed schema validation, kept for the
// quarantine sink together with the reason it was rejected.
type BrokenRow struct {
	Fields map[string]any
	Reason string
}

// Result carries the outcome of extracting one entity file: the table of
// valid rows and the broken rows bound for quarantine.
type Result struct {
	Valid  *table.Table
	Broken []BrokenRow
}

// Extractor validates raw JSON lines against entity schemas.
type Extractor struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{
		validate: validator.New(),
		logger:   util.GetLogger(),
	}
}

// FromFile extracts one entity from its raw JSON file.
func (e *Extractor) FromFile(path string, kind entity.Kind) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer f.Close()
	return e.FromReader(f, kind)
}

// FromReader extracts one entity from a stream of JSON lines. A line that
// fails decoding or validation becomes a broken row; extraction itself
// only fails on I/O errors.
func (e *Extractor) FromReader(r io.Reader, kind entity.Kind) (*Result, error) {
	result := &Result{Valid: table.New(kind.Schema()...)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(line, ",")

		fields, rec, err := e.decodeLine([]byte(line), kind)
		if err != nil {
			e.logger.Warn("Broken row quarantined",
				zap.String("entity", kind.String()),
				zap.String("reason", err.Error()))
			result.Broken = append(result.Broken, BrokenRow{Fields: fields, Reason: err.Error()})
			continue
		}
		if err := result.Valid.AppendRow(rec.Row()...); err != nil {
			return nil, fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read raw data: %w", err)
	}
	return result, nil
}

// decodeLine cleans and strictly decodes one line into the entity record.
// It returns the normalized fields even on failure so the quarantine file
// can carry them.
func (e *Extractor) decodeLine(line []byte, kind entity.Kind) (map[string]any, entity.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return map[string]any{"_raw": string(line)}, nil, fmt.Errorf("invalid JSON: %v", err)
	}

	fields := make(map[string]any, len(raw))
	for key, value := range raw {
		fields[NormalizeKey(key)] = value
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return fields, nil, fmt.Errorf("failed to re-encode row: %v", err)
	}

	rec := entity.NewRecord(kind)
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return fields, nil, fmt.Errorf("schema mismatch: %v", err)
	}
	if err := e.validate.Struct(rec); err != nil {
		return fields, nil, fmt.Errorf("schema validation failed: %v", err)
	}
	return fields, rec, nil
}

// disallowed are the characters raw object keys may carry that the entity
// schemas never do.
const disallowed = " .()$%"

// NormalizeKey collapses a raw object key onto its schema name: a slash
// reads as "per", then the key is split on disallowed characters and the
// fragments are joined with their first letter upper-cased, so
// "Pop. Density (per sq. mi.)" becomes "PopDensityPerSqMi",
// "GDP ($ per capita)" becomes "GDPPerCapita" and
// "Coastline (coast/area ratio)" becomes "CoastlineCoastPerAreaRatio".
// Keys without disallowed characters pass through unchanged.
func NormalizeKey(key string) string {
	if !strings.ContainsAny(key, disallowed+"/") {
		return key
	}
	key = strings.ReplaceAll(key, "/", " per ")
	var b strings.Builder
	for _, part := range strings.FieldsFunc(key, func(r rune) bool {
		return strings.ContainsRune(disallowed, r)
	}) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
