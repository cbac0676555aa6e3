// Package dataset reads and writes the CSV training files the learned
// scorer is fitted on. Column order always follows the feature schema,
// with the supervised target appended last, so a file written here lines
// up exactly with the vectors built at serve time.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spboyer/prepscore/internal/features"
)

// TargetColumn is the supervised label column, always last.
const TargetColumn = "target_score"

// Example is one training row: a feature vector and the rule-based score
// used as its label.
type Example struct {
	Features []float64
	Target   int
}

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// Header returns the CSV header for a schema: its feature fields in
// order, then the target column.
func Header(schema features.Schema) []string {
	h := make([]string, 0, schema.Len()+1)
	h = append(h, schema.Fields...)
	return append(h, TargetColumn)
}

// WriteTraining writes examples to path as a training CSV. When
// appendMode is set and the file already exists, the existing header is
// verified against the schema and rows are appended without a new
// header; a column mismatch is an error, never a silent mixed file.
func WriteTraining(path string, schema features.Schema, examples []Example, appendMode bool) error {
	header := Header(schema)

	writeHeader := true
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		existing, err := readHeader(path)
		switch {
		case err == nil:
			if err := verifyHeader(existing, header); err != nil {
				return fmt.Errorf("csv: %s: %w", path, err)
			}
			writeHeader = false
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		case os.IsNotExist(err):
			// Fresh file, fall through to truncate+header.
		default:
			return err
		}
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("csv: open %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			f.Close() //nolint:errcheck
			return fmt.Errorf("csv: write header: %w", err)
		}
	}

	record := make([]string, len(header))
	for i, ex := range examples {
		if len(ex.Features) != schema.Len() {
			f.Close() //nolint:errcheck
			return fmt.Errorf("csv: example %d has %d features, schema has %d", i, len(ex.Features), schema.Len())
		}
		for j, v := range ex.Features {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record[len(record)-1] = strconv.Itoa(ex.Target)
		if err := w.Write(record); err != nil {
			f.Close() //nolint:errcheck
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("csv: flush %s: %w", path, err)
	}
	return f.Close()
}

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// VerifyTrainingFile checks that an existing training file's columns
// match the schema exactly, in order. Stale files written under an older
// weight configuration fail here before they can poison a training run.
func VerifyTrainingFile(path string, schema features.Schema) error {
	existing, err := readHeader(path)
	if err != nil {
		return err
	}
	if err := verifyHeader(existing, Header(schema)); err != nil {
		return fmt.Errorf("csv: %s: %w", path, err)
	}
	return nil
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header of %s: %w", path, err)
	}
	return header, nil
}

func verifyHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i, got[i], want[i])
		}
	}
	return nil
}
