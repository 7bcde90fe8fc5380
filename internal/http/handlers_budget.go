package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Amount *core.Money `json:"amount"`
}

// handleSetBudget creates or replaces the budget for the current calendar
// month. There is one budget per user per month; repeated calls overwrite.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a valid budget amount")
		return
	}
	if req.Amount == nil || req.Amount.Validate() != nil {
		writeError(w, http.StatusBadRequest, "Please provide a valid budget amount")
		return
	}

	b, err := s.repo.UpsertBudget(r.Context(), core.Budget{
		UserID: user.ID,
		Month:  core.MonthKey(time.Now()),
		Amount: *req.Amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Budget set",
		"user_id", user.ID,
		"month", b.Month,
		"amount_cents", b.Amount.Cents)

	writeJSON(w, http.StatusOK, envelope(
		"message", "Budget saved successfully",
		"budget", b,
	))
}

// handleGetCurrentBudget returns the current month's budget. A user who has
// not set one gets a zero-amount placeholder rather than a 404 so the client
// can always render the field.
func (s *Server) handleGetCurrentBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	b, err := s.repo.GetBudget(r.Context(), user.ID, core.MonthKey(time.Now()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope("budget", b))
}
