//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package csvio reads and writes header-first delimited text tables.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

// ErrNoHeader is returned when an input has no header row.
var ErrNoHeader = errors.New("missing header row")

// ReadFile reads the delimited table at path into a table called name.
func ReadFile(path, name string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := Read(file, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Read parses a comma-separated table from r. Empty fields become null and
// short rows are padded with nulls; a row with more fields than the header
// is an error.
func Read(r io.Reader, name string) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := table.New(name, header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, header has %d",
				line, len(record), len(header))
		}

		row := make([]table.Value, len(header))
		for i, field := range record {
			if field != "" {
				row[i] = table.String(field)
			}
		}
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteFile writes t to path, replacing any existing file.
func WriteFile(path string, t *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, t); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// Write renders t as comma-separated text with a header row and no index
// column. A timestamp column whose values all fall on midnight is written
// as bare dates.
func Write(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	writer := csv.NewWriter(w)
	if err := writer.Write(cols); err != nil {
		return err
	}

	dateOnly := make([]bool, len(cols))
	for j, c := range cols {
		dateOnly[j] = isDateColumn(t.Column(c))
	}

	record := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			if dateOnly[j] {
				record[j] = v.FormatDate()
			} else {
				record[j] = v.Format()
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func isDateColumn(values []table.Value) bool {
	seen := false
	for _, v := range values {
		switch {
		case v.IsNull():
			continue
		case v.IsMidnight():
			seen = true
		default:
			return false
		}
	}
	return seen
}
