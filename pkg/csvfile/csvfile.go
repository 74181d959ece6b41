// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package csvfile loads CSV exports into header-keyed rows
package csvfile

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

const utf8BOM = "\ufeff"

// ErrMissingColumns is returned when a file lacks expected columns
var ErrMissingColumns = errors.New("missing expected columns")

// Row maps column name to cell value for one data row
type Row map[string]string

// Get returns the value of column, or "" when the column is absent
func (r Row) Get(column string) string {
	return r[column]
}

// Has reports whether the row carries column at all
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// File is a parsed CSV file with its header order preserved
type File struct {
	Path    string
	columns []string
	Rows    []Row
}

// Columns returns the header in file order
func (f *File) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Require checks that every column is present in the header
func (f *File) Require(columns ...string) error {
	present := make(map[string]bool, len(f.columns))
	for _, c := range f.columns {
		present[c] = true
	}
	var missing []string
	for _, c := range columns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Mark(errors.Newf("%s: %s: %s", f.Path, ErrMissingColumns, strings.Join(missing, ", ")), ErrMissingColumns),
		"the CSV header must contain: "+strings.Join(columns, ", "))
}

// Load reads the CSV file at path
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening CSV %s", path)
	}
	defer fh.Close()

	file, err := Parse(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "reading CSV %s", path)
	}
	file.Path = path
	return file, nil
}

// Parse reads CSV data from r. The first record is the header.
func Parse(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("CSV file is empty")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	file := &File{columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, errors.Newf("line %d has %d fields, header has %d", line, len(record), len(header))
		}

		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		file.Rows = append(file.Rows, row)
	}
	return file, nil
}
