package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Format describes the layout of a delimiter-separated data file
type Format struct {
	Delimiter   rune // defaults to tab
	HeaderLines int  // leading records to skip
}

// DefaultFormat is tab-separated with no header
var DefaultFormat = Format{Delimiter: '\t'}

// ReadColumns parses a table whose first column is x and every further
// column is one function of x. It returns one Function per y column.
func ReadColumns(r io.Reader, format Format) ([]*Function, error) {
	reader := csv.NewReader(r)
	reader.Comma = format.Delimiter
	if reader.Comma == 0 {
		reader.Comma = '\t'
	}
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var functions []*Function
	for line := 0; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}
		if line < format.HeaderLines {
			continue
		}

		values, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		if len(values) == 0 {
			continue
		}
		if len(values) < 2 {
			return nil, fmt.Errorf("record %d: need at least 2 columns, got %d", line, len(values))
		}
		if functions == nil {
			functions = make([]*Function, len(values)-1)
			for i := range functions {
				functions[i] = New()
			}
		}
		if len(values)-1 != len(functions) {
			return nil, fmt.Errorf("record %d: got %d columns, want %d", line, len(values), len(functions)+1)
		}
		for i, f := range functions {
			if err := f.Push(values[0], values[i+1]); err != nil {
				return nil, fmt.Errorf("record %d column %d: %w", line, i+1, err)
			}
		}
	}

	if functions == nil {
		return nil, errors.New("table contains no data")
	}
	return functions, nil
}

// Read parses a two-column table into a single Function
func Read(r io.Reader, format Format) (*Function, error) {
	functions, err := ReadColumns(r, format)
	if err != nil {
		return nil, err
	}
	if len(functions) != 1 {
		return nil, fmt.Errorf("expected 1 value column, got %d", len(functions))
	}
	return functions[0], nil
}

// LoadColumns reads a multi-column table from a file
func LoadColumns(path string, format Format) ([]*Function, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer file.Close()

	functions, err := ReadColumns(file, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return functions, nil
}

// LoadFile reads a two-column table from a file
func LoadFile(path string, format Format) (*Function, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer file.Close()

	f, err := Read(file, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return f, nil
}

func parseRecord(record []string) ([]float64, error) {
	values := make([]float64, 0, len(record))
	for _, field := range record {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}
