// Package sheets implements the ledger store on a Google spreadsheet via
// the Sheets v4 API. Reads fetch whole tabs; writes are whole-row updates
// and row appends, always with RAW input so values land exactly as sent.
package sheets

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// readRange covers the working area of any tab; tabs never grow past
// column Z or row 10000 in this workbook.
const readRange = "A1:Z10000"

// Store is a ledger.Store backed by one spreadsheet.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// New builds a store for the given spreadsheet. credentialsFile may be
// empty, in which case application default credentials apply.
func New(ctx context.Context, spreadsheetID, credentialsFile string) (*Store, error) {
	opts := []option.ClientOption{
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("New: sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadAllRows fetches every populated row of a tab, row-major.
func (s *Store) ReadAllRows(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table+"!"+readRange).
		MajorDimension("ROWS").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ReadAllRows: %s: %w", table, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// UpdateRow overwrites one whole row. rowNum1 counts the header as row 1.
func (s *Store) UpdateRow(ctx context.Context, table string, rowNum1 int, values []string) error {
	lastCol := "Z"
	if len(values) > 0 {
		lastCol = ColLetter(len(values) - 1)
	}
	rng := fmt.Sprintf("%s!A%d:%s%d", table, rowNum1, lastCol, rowNum1)
	vr := &sheetsapi.ValueRange{Values: [][]any{toAnyRow(values)}}
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("UpdateRow: %s row %d: %w", table, rowNum1, err)
	}
	return nil
}

// AppendRows appends whole rows after the tab's last populated row.
func (s *Store) AppendRows(ctx context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("AppendRows: rows are required")
	}
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = toAnyRow(r)
	}
	vr := &sheetsapi.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, table+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("AppendRows: %s: %w", table, err)
	}
	return nil
}

// ColLetter converts a zero-based column position to an A1 column letter
// (0 -> A, 25 -> Z, 26 -> AA).
func ColLetter(i int) string {
	s := ""
	n := i + 1
	for n > 0 {
		r := (n - 1) % 26
		s = string(rune('A'+r)) + s
		n = (n - 1) / 26
	}
	return s
}

func toAnyRow(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
