package ledger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// fakeStore is an in-memory Store that records writes and applies them, so
// tests can assert both the calls made and the resulting table state.
type fakeStore struct {
	tables map[string][][]string

	appends   map[string][][]string
	updates   []fakeUpdate
	readErr   error
	appendErr error
	updateErr error
}

type fakeUpdate struct {
	table   string
	rowNum1 int
	values  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:  map[string][][]string{},
		appends: map[string][][]string{},
	}
}

func (f *fakeStore) ReadAllRows(_ context.Context, table string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	src := f.tables[table]
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeStore) UpdateRow(_ context.Context, table string, rowNum1 int, values []string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, fakeUpdate{table: table, rowNum1: rowNum1, values: append([]string(nil), values...)})
	rows := f.tables[table]
	if rowNum1-1 < len(rows) {
		rows[rowNum1-1] = append([]string(nil), values...)
	}
	return nil
}

func (f *fakeStore) AppendRows(_ context.Context, table string, rows [][]string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, row := range rows {
		copied := append([]string(nil), row...)
		f.appends[table] = append(f.appends[table], copied)
		f.tables[table] = append(f.tables[table], copied)
	}
	return nil
}

func (f *fakeStore) writeCount() int {
	n := len(f.updates)
	for _, rows := range f.appends {
		n += len(rows)
	}
	return n
}

func testTabs() Tabs {
	return Tabs{
		Log:        "Credit Card - Log",
		JobMaster:  "Feed - Job Master",
		CostCodes:  "Lookup - Cost Codes",
		GLAccounts: "Lookup - GL Accounts",
		Users:      "Lookup - Users",
	}
}

func testService(store Store) *Service {
	return NewService(store, testTabs(), zerolog.New(os.Stderr).Level(zerolog.Disabled))
}
