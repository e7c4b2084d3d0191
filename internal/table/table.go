// Package table loads CSV activity logs into rows keyed by header name.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"insider-features/internal/record"
)

// Header maps a normalised column name to its position.
type Header map[string]int

// Row is one CSV line viewed through its header. Columns beyond the end of a
// short line read as missing.
type Row struct {
	header Header
	fields []string
}

func (r Row) Get(column string) (string, bool) {
	i, ok := r.header[normalize(column)]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return r.fields[i], true
}

func Load(path string) ([]record.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return rows, nil
}

// Read parses CSV with a header line. An empty input yields no rows.
func Read(r io.Reader) ([]record.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	names, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(Header, len(names))
	for i, name := range names {
		header[normalize(name)] = i
	}

	var rows []record.Row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", len(rows)+2, err)
		}
		rows = append(rows, Row{header: header, fields: fields})
	}
	return rows, nil
}

// Write emits rows as CSV under the given column order. Missing columns are
// written as empty cells.
func Write(w io.Writer, columns []string, rows []record.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	line := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			line[i], _ = row.Get(c)
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}
