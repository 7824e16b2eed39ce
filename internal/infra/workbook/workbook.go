// Package workbook implements the ledger store on a local .xlsx file.
// It exists for offline operation and for exercising the workflow without
// a live spreadsheet; semantics mirror the sheets store (whole-row writes,
// appends after the last populated row, no locking between processes).
package workbook

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Store is a ledger.Store backed by one workbook file. A mutex serializes
// access within the process; the file itself is still last-write-wins.
type Store struct {
	path string
	mu   sync.Mutex
}

// New opens a store over an existing workbook file.
func New(path string) (*Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("New: open workbook: %w", err)
	}
	defer f.Close()
	return &Store{path: path}, nil
}

// ReadAllRows returns every populated row of the named sheet.
func (s *Store) ReadAllRows(_ context.Context, table string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("ReadAllRows: open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("ReadAllRows: %s: %w", table, err)
	}
	return rows, nil
}

// UpdateRow overwrites one whole row. rowNum1 counts the header as row 1.
func (s *Store) UpdateRow(_ context.Context, table string, rowNum1 int, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("UpdateRow: open workbook: %w", err)
	}
	defer f.Close()

	if err := writeRow(f, table, rowNum1, values); err != nil {
		return fmt.Errorf("UpdateRow: %s row %d: %w", table, rowNum1, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("UpdateRow: save workbook: %w", err)
	}
	return nil
}

// AppendRows appends whole rows after the sheet's last populated row.
func (s *Store) AppendRows(_ context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("AppendRows: rows are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("AppendRows: open workbook: %w", err)
	}
	defer f.Close()

	existing, err := f.GetRows(table)
	if err != nil {
		return fmt.Errorf("AppendRows: %s: %w", table, err)
	}
	next := len(existing) + 1
	for i, row := range rows {
		if err := writeRow(f, table, next+i, row); err != nil {
			return fmt.Errorf("AppendRows: %s row %d: %w", table, next+i, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("AppendRows: save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, table string, rowNum1 int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(table, cell, v); err != nil {
			return err
		}
	}
	return nil
}
