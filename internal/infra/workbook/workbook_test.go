package workbook

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testSheet = "Credit Card - Log"

func newTestWorkbook(t *testing.T, rows [][]string) *Store {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(testSheet); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("DeleteSheet: %v", err)
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellStr(testSheet, cell, v); err != nil {
				t.Fatalf("SetCellStr: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	store, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func seedRows() [][]string {
	return [][]string{
		{"ID", "Amount", "Status"},
		{"1", "$25.00", "New"},
		{"2", "$50.00", "Submitted"},
	}
}

func TestReadAllRows(t *testing.T) {
	store := newTestWorkbook(t, seedRows())

	rows, err := store.ReadAllRows(context.Background(), testSheet)
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][1] != "$25.00" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestUpdateRow(t *testing.T) {
	store := newTestWorkbook(t, seedRows())
	ctx := context.Background()

	if err := store.UpdateRow(ctx, testSheet, 2, []string{"1", "$25.00", "Split"}); err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}

	rows, err := store.ReadAllRows(ctx, testSheet)
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	if rows[1][2] != "Split" {
		t.Errorf("Status = %q, want Split", rows[1][2])
	}
	if rows[2][2] != "Submitted" {
		t.Errorf("row 3 clobbered: %v", rows[2])
	}
}

func TestAppendRows(t *testing.T) {
	store := newTestWorkbook(t, seedRows())
	ctx := context.Background()

	err := store.AppendRows(ctx, testSheet, [][]string{
		{"3", "$10.00", "New"},
		{"4", "$15.00", "New"},
	})
	if err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	rows, err := store.ReadAllRows(ctx, testSheet)
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[3][0] != "3" || rows[4][0] != "4" {
		t.Errorf("appended rows out of place: %v", rows[3:])
	}
}

func TestAppendRowsRequiresRows(t *testing.T) {
	store := newTestWorkbook(t, seedRows())
	if err := store.AppendRows(context.Background(), testSheet, nil); err == nil {
		t.Error("expected error for empty append")
	}
}

func TestNewMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Error("expected error for missing workbook")
	}
}
