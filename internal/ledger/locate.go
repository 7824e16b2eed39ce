package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNoIDColumn marks a table whose header row has no ID column. That is a
// configuration problem, distinct from "no row matched".
var ErrNoIDColumn = errors.New("table has no ID column")

// Record is one located row together with the index built from the table's
// live header row.
type Record struct {
	Index   *Index
	Row     []string
	RowNum1 int // 1-based sheet row number (header is row 1)
}

// Cell returns the record's value for a column resolved through the index,
// or "" when the column is absent or the row is short.
func (r *Record) Cell(name string, alts ...string) string {
	i, ok := r.Index.Col(name, alts...)
	if !ok || i >= len(r.Row) {
		return ""
	}
	return r.Row[i]
}

// Summary renders the record as a header-keyed map, padding short rows
// with empty strings.
func (r *Record) Summary() map[string]string {
	out := make(map[string]string, len(r.Index.Headers()))
	for i, h := range r.Index.Headers() {
		v := ""
		if i < len(r.Row) {
			v = r.Row[i]
		}
		out[h] = v
	}
	return out
}

// FindByID locates the first row whose ID cell equals id after trimming.
// Row 0 is the header row; duplicates are not deduplicated, the first
// occurrence wins. Returns ErrNoIDColumn when the ID column is missing and
// a NotFoundError when no row matches.
func FindByID(rows [][]string, id string) (*Record, error) {
	wanted := strings.TrimSpace(id)
	if len(rows) < 2 {
		return nil, &NotFoundError{Msg: fmt.Sprintf("Parent ID %s not found", wanted)}
	}
	idx := NewIndex(rows[0])
	idCol, ok := idx.id()
	if !ok {
		return nil, ErrNoIDColumn
	}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if idCol >= len(row) {
			continue
		}
		if strings.TrimSpace(row[idCol]) == wanted {
			return &Record{Index: idx, Row: row, RowNum1: i + 1}, nil
		}
	}
	return nil, &NotFoundError{Msg: fmt.Sprintf("Parent ID %s not found", wanted)}
}

// NextID scans the ID column and returns max(floor(numeric id))+1. IDs are
// parsed after stripping everything but digits, '.' and '-'. An empty table
// yields 1; a missing ID column yields ErrNoIDColumn, which callers must
// not confuse with a valid next id of 1.
func NextID(rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, ErrNoIDColumn
	}
	idx := NewIndex(rows[0])
	idCol, ok := idx.id()
	if !ok {
		return 0, ErrNoIDColumn
	}
	maxID := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if idCol >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[idCol])
		if raw == "" {
			continue
		}
		n := ParseMoney(keepRunes(raw, "0123456789.-"))
		if math.IsNaN(n) {
			continue
		}
		if f := int(math.Floor(n)); f > maxID {
			maxID = f
		}
	}
	return maxID + 1, nil
}
