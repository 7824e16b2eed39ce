package ledger

import (
	"context"
	"sort"
	"strings"
)

// TableResult is a filtered view of the log tab: the live header row plus
// matching rows as header-keyed records.
type TableResult struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// ApprovalGroup is one purchaser's queue of submitted transactions.
type ApprovalGroup struct {
	Purchaser string              `json:"purchaser"`
	Rows      []map[string]string `json:"rows"`
}

// ApprovalsResult groups submitted transactions by purchaser for one
// approver.
type ApprovalsResult struct {
	Headers   []string        `json:"headers"`
	Groups    []ApprovalGroup `json:"groups"`
	TotalRows int             `json:"totalRows"`
}

// NewForUser returns the purchaser's uncoded transactions: Status=New and
// User Name equal to the caller's username, both compared after trimming
// and lower-casing. Rows come back sorted by transaction description.
func (s *Service) NewForUser(ctx context.Context, username string) (*TableResult, error) {
	rows, err := s.store.ReadAllRows(ctx, s.tabs.Log)
	if err != nil {
		return nil, upstream("NewForUser: read ledger", err)
	}
	if len(rows) < 2 {
		headers := []string{}
		if len(rows) == 1 {
			headers = rows[0]
		}
		return &TableResult{Headers: headers, Rows: []map[string]string{}}, nil
	}
	idx := NewIndex(rows[0])
	statusCol, hasStatus := idx.status()
	userCol, hasUser := idx.user()
	if !hasStatus || !hasUser {
		return nil, &NotFoundError{Msg: "Missing Status/User Name columns"}
	}

	me := foldCell(username)
	out := make([]map[string]string, 0)
	for i := 1; i < len(rows); i++ {
		rec := Record{Index: idx, Row: rows[i], RowNum1: i + 1}
		if foldCell(cellAt(rows[i], statusCol)) != strings.ToLower(StatusNew) {
			continue
		}
		if foldCell(cellAt(rows[i], userCol)) != me {
			continue
		}
		out = append(out, rec.Summary())
	}
	sortByDescription(idx, out)
	return &TableResult{Headers: rows[0], Rows: out}, nil
}

// SubmittedForApprover returns the approver's queues: Status=Submitted and
// Approver equal to the caller's username, grouped by purchaser. Groups
// sort by purchaser; rows within a group sort by transaction description,
// tolerating the legacy misspelled header.
func (s *Service) SubmittedForApprover(ctx context.Context, username string) (*ApprovalsResult, error) {
	rows, err := s.store.ReadAllRows(ctx, s.tabs.Log)
	if err != nil {
		return nil, upstream("SubmittedForApprover: read ledger", err)
	}
	if len(rows) < 2 {
		headers := []string{}
		if len(rows) == 1 {
			headers = rows[0]
		}
		return &ApprovalsResult{Headers: headers, Groups: []ApprovalGroup{}}, nil
	}
	idx := NewIndex(rows[0])
	statusCol, hasStatus := idx.status()
	approverCol, hasApprover := idx.approver()
	userCol, hasUser := idx.user()
	if !hasStatus || !hasApprover || !hasUser {
		return nil, &NotFoundError{Msg: "Missing Status/Approver/User Name columns"}
	}

	me := foldCell(username)
	grouped := make(map[string][]map[string]string)
	total := 0
	for i := 1; i < len(rows); i++ {
		rec := Record{Index: idx, Row: rows[i], RowNum1: i + 1}
		if foldCell(cellAt(rows[i], statusCol)) != strings.ToLower(StatusSubmitted) {
			continue
		}
		if foldCell(cellAt(rows[i], approverCol)) != me {
			continue
		}
		purchaser := foldCell(cellAt(rows[i], userCol))
		if purchaser == "" {
			purchaser = "(unknown)"
		}
		grouped[purchaser] = append(grouped[purchaser], rec.Summary())
		total++
	}

	purchasers := make([]string, 0, len(grouped))
	for p := range grouped {
		purchasers = append(purchasers, p)
	}
	sort.Strings(purchasers)

	groups := make([]ApprovalGroup, 0, len(purchasers))
	for _, p := range purchasers {
		rows := grouped[p]
		sortByDescription(idx, rows)
		groups = append(groups, ApprovalGroup{Purchaser: p, Rows: rows})
	}
	return &ApprovalsResult{Headers: rows[0], Groups: groups, TotalRows: total}, nil
}

// sortByDescription orders records by their transaction description,
// case-insensitively, preserving input order for equal keys.
func sortByDescription(idx *Index, recs []map[string]string) {
	descCol, ok := idx.description()
	if !ok {
		return
	}
	key := idx.Headers()[descCol]
	sort.SliceStable(recs, func(i, j int) bool {
		return strings.ToLower(recs[i][key]) < strings.ToLower(recs[j][key])
	})
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func foldCell(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
