package ledger

import (
	"context"
	"strings"
)

// BatchItem carries one record's edits for a submit or approve batch. The
// code fields are named after the wire payload (costCodeCode,
// glAccountCode) the coding UI sends.
type BatchItem struct {
	ID            string
	Notes         Field
	JobID         Field
	CostCodeCode  Field
	Division      Field
	GLAccountCode Field
}

// ParseBatchItems validates the decoded `items` array shared by the submit
// and approve endpoints.
func ParseBatchItems(v any) ([]BatchItem, *ValidationError) {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil, &ValidationError{Errors: []string{"items array required"}}
	}
	items := make([]BatchItem, 0, len(raw))
	for _, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		it := BatchItem{}
		if id, ok := parentIDString(obj["id"]); ok {
			it.ID = id
		}
		for key, dst := range map[string]*Field{
			"notes":         &it.Notes,
			"jobId":         &it.JobID,
			"costCodeCode":  &it.CostCodeCode,
			"division":      &it.Division,
			"glAccountCode": &it.GLAccountCode,
		} {
			if v, present := obj[key]; present {
				if f, ok := optionalField(v); ok {
					*dst = f
				}
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// SubmitBatch sets Status=Submitted on each item's row, persisting any
// edited coding fields with the same job-forces-GL rule as splitting.
// Unknown IDs are skipped. Rows are rewritten one at a time, so a failure
// partway through leaves earlier rows updated; the returned count is the
// number of items requested, matching the original behavior.
func (s *Service) SubmitBatch(ctx context.Context, items []BatchItem) (int, error) {
	if err := s.rewriteBatch(ctx, items, StatusSubmitted, "SubmitBatch"); err != nil {
		return 0, err
	}
	return len(items), nil
}

// ApproveBatch sets Status=Approved. Callers may send full items (edits
// persisted like SubmitBatch) or bare ids (status change only).
func (s *Service) ApproveBatch(ctx context.Context, items []BatchItem, ids []string) (int, error) {
	if items == nil {
		if len(ids) == 0 {
			return 0, &ValidationError{Errors: []string{"ids or items required"}}
		}
		items = make([]BatchItem, 0, len(ids))
		for _, id := range ids {
			items = append(items, BatchItem{ID: id})
		}
	}
	if err := s.rewriteBatch(ctx, items, StatusApproved, "ApproveBatch"); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *Service) rewriteBatch(ctx context.Context, items []BatchItem, status, op string) error {
	rows, err := s.store.ReadAllRows(ctx, s.tabs.Log)
	if err != nil {
		return upstream(op+": read ledger", err)
	}
	if len(rows) < 2 {
		return &NotFoundError{Msg: "No data"}
	}
	idx := NewIndex(rows[0])
	idCol, hasID := idx.id()
	statusCol, hasStatus := idx.status()
	if !hasID || !hasStatus {
		return &NotFoundError{Msg: "Missing ID/Status"}
	}

	// Duplicate IDs resolve to the last occurrence here, unlike the split
	// path's first-match scan. Inherited quirk of the batch primitive.
	byID := make(map[string]int)
	for i := 1; i < len(rows); i++ {
		if idCol >= len(rows[i]) {
			continue
		}
		if id := strings.TrimSpace(rows[i][idCol]); id != "" {
			byID[id] = i
		}
	}

	for _, it := range items {
		rowIdx, ok := byID[strings.TrimSpace(it.ID)]
		if !ok {
			continue
		}
		row := make([]string, len(rows[rowIdx]))
		copy(row, rows[rowIdx])

		setIf := func(name string, f Field) {
			if c, ok := idx.Col(name); ok && f.Set {
				for len(row) <= c {
					row = append(row, "")
				}
				row[c] = f.Value
			}
		}
		setIf(colNotes, it.Notes)
		setIf(colJobID, it.JobID)
		setIf(colCostCode, it.CostCodeCode)
		setIf(colDivision, it.Division)
		if it.JobID.Set && strings.TrimSpace(it.JobID.Value) != "" {
			setIf(colGLAccount, Field{Set: true, Value: JobGLCode})
		} else {
			setIf(colGLAccount, it.GLAccountCode)
		}

		for len(row) <= statusCol {
			row = append(row, "")
		}
		row[statusCol] = status
		for len(row) < len(idx.Headers()) {
			row = append(row, "")
		}
		if err := s.store.UpdateRow(ctx, s.tabs.Log, rowIdx+1, row); err != nil {
			return upstream(op+": update row", err)
		}
	}
	return nil
}
