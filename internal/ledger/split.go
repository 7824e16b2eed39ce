package ledger

import (
	"context"
	"errors"
	"math"
	"strconv"
)

// ConservationTolerance is the epsilon allowed when comparing the split
// total against the parent amount.
const ConservationTolerance = 0.0001

// SplitEcho is the flat per-line echo returned in a split preview, with the
// amount already parsed to a number.
type SplitEcho struct {
	ParentID  string  `json:"parentId"`
	Amount    float64 `json:"amount"`
	Notes     string  `json:"notes"`
	JobID     string  `json:"jobId"`
	CostCode  string  `json:"costCode"`
	Division  string  `json:"division"`
	GLAccount string  `json:"glAccount"`
}

// SplitResult is the structured outcome of a split call. Preview and
// ChildrenPreview are populated even on the commit path so callers can see
// exactly what was written.
type SplitResult struct {
	OK              bool                `json:"ok"`
	DryRun          bool                `json:"dryRun"`
	AssignIDs       bool                `json:"assignIds"`
	ParentSummary   map[string]string   `json:"parentSummary"`
	Preview         []SplitEcho         `json:"preview"`
	ChildrenPreview []map[string]string `json:"childrenPreview"`
	Appended        int                 `json:"appended"`
}

// Split runs the full split protocol: locate the parent, check amount
// conservation, build the child previews, and — unless DryRun — append the
// children and rewrite the parent row with Status=Split.
//
// The split total may not exceed the parent amount beyond the tolerance;
// a total below the parent amount is accepted, which supports repeated
// partial splits of one transaction over time.
//
// Validation, lookup and conservation failures all abort before any write.
// A failure between the append and the parent update leaves the store
// partially committed; there is no rollback and the caller decides whether
// to retry.
func (s *Service) Split(ctx context.Context, req *SplitRequest) (*SplitResult, error) {
	rows, err := s.store.ReadAllRows(ctx, s.tabs.Log)
	if err != nil {
		return nil, upstream("Split: read ledger", err)
	}

	parent, err := FindByID(rows, req.ParentID)
	if err != nil {
		if errors.Is(err, ErrNoIDColumn) {
			return nil, &NotFoundError{Msg: "Missing ID column in sheet"}
		}
		return nil, err
	}

	parentSummary := parent.Summary()

	// The conservation check keys on the literal "Amount" header; a ledger
	// without one skips the check rather than guessing a column.
	parentAmount := ParseMoney(parentSummary[colAmount])
	splitTotal := 0.0
	for _, line := range req.Splits {
		if !math.IsNaN(line.Amount) {
			splitTotal += line.Amount
		}
	}
	if !math.IsNaN(parentAmount) && splitTotal > parentAmount+ConservationTolerance {
		return nil, &ConservationError{SplitTotal: splitTotal, ParentAmount: parentAmount}
	}

	preview := make([]SplitEcho, 0, len(req.Splits))
	for _, line := range req.Splits {
		preview = append(preview, SplitEcho{
			ParentID:  req.ParentID,
			Amount:    line.Amount,
			Notes:     line.Notes.Value,
			JobID:     line.JobID.Value,
			CostCode:  line.CostCode.Value,
			Division:  line.Division.Value,
			GLAccount: line.GLAccount.Value,
		})
	}

	children := BuildChildren(parent.Index, parent.Row, req.Splits)

	result := &SplitResult{
		OK:              true,
		DryRun:          req.DryRun,
		AssignIDs:       req.AssignIDs,
		ParentSummary:   parentSummary,
		Preview:         preview,
		ChildrenPreview: children,
	}
	if req.DryRun {
		return result, nil
	}

	headers := parent.Index.Headers()
	idCol, hasID := parent.Index.id()

	toWrite := make([]map[string]string, len(children))
	for i, c := range children {
		clone := make(map[string]string, len(c))
		for k, v := range c {
			clone[k] = v
		}
		toWrite[i] = clone
	}

	if req.AssignIDs {
		// Re-read so freshly appended rows elsewhere still advance the
		// counter. There is still no reservation; two committers can race.
		latest, err := s.store.ReadAllRows(ctx, s.tabs.Log)
		if err != nil {
			return nil, upstream("Split: read ledger for ids", err)
		}
		if next, err := NextID(latest); err == nil && hasID {
			for _, obj := range toWrite {
				obj[headers[idCol]] = strconv.Itoa(next)
				next++
			}
		}
	} else if hasID {
		// Not finalized: make it obvious these rows have no identity yet.
		for _, obj := range toWrite {
			obj[headers[idCol]] = ""
		}
	}

	values := make([][]string, len(toWrite))
	for i, obj := range toWrite {
		values[i] = RowValues(headers, obj)
	}
	if err := s.store.AppendRows(ctx, s.tabs.Log, values); err != nil {
		return nil, upstream("Split: append children", err)
	}
	result.Appended = len(values)

	if statusCol, ok := parent.Index.status(); ok {
		updated := make([]string, len(parent.Row))
		copy(updated, parent.Row)
		for len(updated) < len(headers) {
			updated = append(updated, "")
		}
		updated[statusCol] = StatusSplit
		if err := s.store.UpdateRow(ctx, s.tabs.Log, parent.RowNum1, updated); err != nil {
			// Children are already appended; surfacing the upstream failure
			// here is the documented partial-commit gap.
			s.log.Error().Err(err).Str("parent_id", req.ParentID).
				Msg("children appended but parent status update failed")
			return nil, upstream("Split: update parent status", err)
		}
	}

	return result, nil
}
