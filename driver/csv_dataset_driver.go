package driver

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"visitboard/domain"
)

// CSVDatasetDriver implements DatasetPort over a local CSV file. The file is
// read from disk on every Load call.
type CSVDatasetDriver struct {
	path string
}

// NewCSVDatasetDriver creates a driver for the CSV file at path.
func NewCSVDatasetDriver(path string) *CSVDatasetDriver {
	return &CSVDatasetDriver{path: path}
}

// Path returns the file the driver reads.
func (d *CSVDatasetDriver) Path() string {
	return d.path
}

// Load reads and parses every row of the dataset.
func (d *CSVDatasetDriver) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	// Errors reach the page, so they name the file but not its directory.
	name := filepath.Base(d.path)
	f, err := os.Open(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Dataset{}, fmt.Errorf("%w: file not found: %s", domain.ErrDataUnavailable, name)
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return domain.Dataset{}, fmt.Errorf("%w: open %s: %w", domain.ErrDataUnavailable, name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ParsePassengers(f)
}

// ParsePassengers reads a CSV stream with a header row.
func ParsePassengers(r io.Reader) (domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Dataset{}, fmt.Errorf("%w: file has no header row", domain.ErrDataUnavailable)
		}
		return domain.Dataset{}, fmt.Errorf("%w: parse header: %w", domain.ErrDataUnavailable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	groupIdx, err := columnIndex(header, domain.ColumnGroup)
	if err != nil {
		return domain.Dataset{}, err
	}
	outcomeIdx, err := columnIndex(header, domain.ColumnOutcome)
	if err != nil {
		return domain.Dataset{}, err
	}

	var rows []domain.Passenger
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("%w: parse row: %w", domain.ErrDataUnavailable, err)
		}

		outcome, err := domain.ParseOutcome(record[outcomeIdx])
		if err != nil {
			line, _ := reader.FieldPos(outcomeIdx)
			return domain.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}

		rows = append(rows, domain.Passenger{
			Sex:      strings.TrimSpace(record[groupIdx]),
			Survived: outcome,
			Record:   record,
		})
	}

	return domain.Dataset{Columns: header, Rows: rows}, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: missing column %q", domain.ErrDataUnavailable, name)
}
