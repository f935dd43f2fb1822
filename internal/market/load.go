package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads the comma-separated dataset at path. The zipColumn is always
// read as text so numeric and string-typed ZIP exports join the same way.
func LoadCSV(path, zipColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	defer f.Close()
	return ReadCSV(f, zipColumn)
}

// ReadCSV parses a dataset from r. See LoadCSV.
func ReadCSV(r io.Reader, zipColumn string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrLoad)
		}
		return nil, fmt.Errorf("%w: read header: %w", ErrLoad, err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read row %d: %w", ErrLoad, len(records)+1, err)
		}
		records = append(records, rec)
	}
	return NewTable(header, records, zipColumn)
}
