package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/quickcodehq/quickcode/internal/api/middleware"
	"github.com/quickcodehq/quickcode/internal/ledger"
)

// sampleParentLimit caps the diagnostic parent listing.
const sampleParentLimit = 15

// LedgerHandler serves the expense-coding endpoints over the ledger
// service.
type LedgerHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(svc *ledger.Service, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, log: log}
}

// Split handles POST /api/log/split. dryRun defaults true and assignIds
// defaults false; ?dryRun= and ?assignIds= override the body flags.
func (h *LedgerHandler) Split(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req, verr := ledger.ParseSplitPayload(body)
	if verr != nil {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"ok":     false,
			"errors": verr.Errors,
		})
		return
	}

	query := r.URL.Query()
	if v := query.Get("dryRun"); query.Has("dryRun") {
		req.DryRun = ledger.DryRunParam(v)
	}
	if v := query.Get("assignIds"); query.Has("assignIds") {
		req.AssignIDs = ledger.AssignIDsParam(v)
	}

	result, err := h.svc.Split(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err, "Split failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

// SubmitBatch handles POST /api/log/submit-batch.
func (h *LedgerHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items any `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, verr := ledger.ParseBatchItems(body.Items)
	if verr != nil {
		middleware.WriteError(w, http.StatusBadRequest, verr.Errors[0])
		return
	}

	updated, err := h.svc.SubmitBatch(r.Context(), items)
	if err != nil {
		h.writeDomainError(w, err, "Submit batch failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": updated})
}

// ApproveBatch handles POST /api/log/approve-batch. The body carries
// either full items (edits persisted) or bare ids.
func (h *LedgerHandler) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items any   `json:"items"`
		IDs   []any `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var items []ledger.BatchItem
	if body.Items != nil {
		parsed, verr := ledger.ParseBatchItems(body.Items)
		if verr != nil {
			middleware.WriteError(w, http.StatusBadRequest, verr.Errors[0])
			return
		}
		items = parsed
	}
	ids := make([]string, 0, len(body.IDs))
	for _, v := range body.IDs {
		switch x := v.(type) {
		case string:
			ids = append(ids, x)
		case float64:
			ids = append(ids, strconv.FormatFloat(x, 'f', -1, 64))
		}
	}

	if items == nil && len(ids) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "ids or items required")
		return
	}

	updated, err := h.svc.ApproveBatch(r.Context(), items, ids)
	if err != nil {
		h.writeDomainError(w, err, "Approve batch failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": updated})
}

// NewTransactions handles GET /api/log/new: the caller's uncoded rows.
func (h *LedgerHandler) NewTransactions(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())
	if ident == nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	result, err := h.svc.NewForUser(r.Context(), ident.Username)
	if err != nil {
		h.writeDomainError(w, err, "List new transactions failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

// Approvals handles GET /api/approvals/submitted: the caller's approval
// queues grouped by purchaser.
func (h *LedgerHandler) Approvals(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())
	if ident == nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	result, err := h.svc.SubmittedForApprover(r.Context(), ident.Username)
	if err != nil {
		h.writeDomainError(w, err, "List approvals failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

// Lookups handles GET /api/lookups.
func (h *LedgerHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Lookups(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "Lookups failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

// SampleParents handles GET /api/log/sample-parents, an unauthenticated
// diagnostic listing of candidate parent rows.
func (h *LedgerHandler) SampleParents(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.SampleParents(r.Context(), sampleParentLimit)
	if err != nil {
		h.writeDomainError(w, err, "Sample parents failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// SheetsTest handles GET /sheets/test: echoes the live header row.
func (h *LedgerHandler) SheetsTest(w http.ResponseWriter, r *http.Request) {
	headers, err := h.svc.HeaderRow(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "Header probe failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"headers": headers})
}

// writeDomainError maps the ledger error taxonomy onto HTTP statuses.
// Every failure is a structured reason, never a stack trace.
func (h *LedgerHandler) writeDomainError(w http.ResponseWriter, err error, msg string) {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"ok":     false,
			"errors": verr.Errors,
		})
		return
	}
	var cerr *ledger.ConservationError
	if errors.As(err, &cerr) {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"ok":     false,
			"errors": []string{cerr.Error()},
		})
		return
	}
	var nerr *ledger.NotFoundError
	if errors.As(err, &nerr) {
		middleware.WriteJSON(w, http.StatusNotFound, map[string]any{
			"ok":    false,
			"error": nerr.Msg,
		})
		return
	}
	h.log.Error().Err(err).Msg(msg)
	middleware.WriteError(w, http.StatusBadGateway, "Upstream service error")
}
