// Package table persists normalized records as CSV files with a header row.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

type row interface {
	Row() []string
}

// WriteCommits writes records to path as a commits table.
func WriteCommits(path string, records []domain.CommitRecord) error {
	return write(path, domain.CommitColumns, records)
}

// WriteIssues writes records to path as an issues table.
func WriteIssues(path string, records []domain.IssueRecord) error {
	return write(path, domain.IssueColumns, records)
}

// write renders the table into a temporary file next to path and renames it
// into place, so readers never observe a partial table.
func write[T row](path string, header []string, records []T) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadCommits loads a commits table written by WriteCommits.
func ReadCommits(path string) ([]domain.CommitRecord, error) {
	rows, err := read(path, domain.CommitColumns)
	if err != nil {
		return nil, err
	}
	records := make([]domain.CommitRecord, 0, len(rows))
	for i, r := range rows {
		date, err := parseTime(path, i, "date", r[3])
		if err != nil {
			return nil, err
		}
		records = append(records, domain.CommitRecord{SHA: r[0], Author: r[1], Email: r[2], Date: date, Message: r[4]})
	}
	return records, nil
}

// ReadIssues loads an issues table written by WriteIssues.
func ReadIssues(path string) ([]domain.IssueRecord, error) {
	rows, err := read(path, domain.IssueColumns)
	if err != nil {
		return nil, err
	}
	records := make([]domain.IssueRecord, 0, len(rows))
	for i, r := range rows {
		var record domain.IssueRecord
		if record.ID, err = strconv.ParseInt(r[0], 10, 64); err != nil {
			return nil, cellError(path, i, "id", r[0])
		}
		if record.Number, err = strconv.Atoi(r[1]); err != nil {
			return nil, cellError(path, i, "number", r[1])
		}
		record.Title, record.User, record.State = r[2], r[3], r[4]
		if record.CreatedAt, err = parseTime(path, i, "created_at", r[5]); err != nil {
			return nil, err
		}
		if r[6] != "" {
			closedAt, err := parseTime(path, i, "closed_at", r[6])
			if err != nil {
				return nil, err
			}
			record.ClosedAt = &closedAt
		}
		if record.Comments, err = strconv.Atoi(r[7]); err != nil {
			return nil, cellError(path, i, "comments", r[7])
		}
		records = append(records, record)
	}
	return records, nil
}

// read returns the data rows of a CSV file whose header must equal header exactly.
func read(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	got, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrSchemaMismatch, path)
	}
	if err != nil {
		return nil, readError(path, err)
	}
	if !slices.Equal(got, header) {
		return nil, fmt.Errorf("%w: %s has columns [%s], want [%s]", domain.ErrSchemaMismatch, path, strings.Join(got, ","), strings.Join(header, ","))
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, readError(path, err)
	}
	return rows, nil
}

func readError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %v", domain.ErrSchemaMismatch, path, err)
	}
	return fmt.Errorf("failed to read table %s: %w", path, err)
}

func parseTime(path string, i int, column, value string) (t time.Time, err error) {
	if t, err = domain.ParseTime(value); err != nil {
		return t, cellError(path, i, column, value)
	}
	return t, nil
}

func cellError(path string, i int, column, value string) error {
	return fmt.Errorf("%w: %s row %d: invalid %s %q", domain.ErrSchemaMismatch, path, i+1, column, value)
}
