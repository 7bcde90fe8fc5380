package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// expenseRequest covers both create and update payloads. Pointers
// distinguish "field absent" from "field set to a zero value", which is what
// makes partial updates work.
type expenseRequest struct {
	Title    *string     `json:"title"`
	Amount   *core.Money `json:"amount"`
	Category *string     `json:"category"`
	Date     *string     `json:"date"`
	Notes    *string     `json:"notes"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == nil || req.Amount == nil || req.Category == nil {
		writeError(w, http.StatusBadRequest, "Please provide title, amount, and category")
		return
	}

	date := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDateValue(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	e := core.Expense{
		UserID:   user.ID,
		Title:    strings.TrimSpace(*req.Title),
		Amount:   *req.Amount,
		Category: core.Category(*req.Category),
		Date:     date,
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	if err := e.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.repo.CreateExpense(r.Context(), &e); err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"expense_id", e.ID,
		"user_id", user.ID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	writeJSON(w, http.StatusCreated, envelope(
		"message", "Expense created successfully",
		"expense", e,
	))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	q := r.URL.Query()

	filter := storage.ExpenseFilter{
		Category: core.Category(strings.TrimSpace(q.Get("category"))),
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		from, err := parseDateValue(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
		filter.From = from
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		to, err := parseDateValue(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		// Inclusive upper bound: stretch a bare date to the end of its day.
		filter.To = endOfDay(to)
	}

	expenses, err := s.repo.ListExpenses(r.Context(), user.ID, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope(
		"count", len(expenses),
		"expenses", expenses,
	))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	e, err := s.repo.GetExpense(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope("expense", e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := core.ExpensePatch{
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	if req.Category != nil {
		category := core.Category(*req.Category)
		patch.Category = &category
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDateValue(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	e, err := s.repo.UpdateExpense(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense updated",
		"expense_id", e.ID,
		"user_id", user.ID)

	writeJSON(w, http.StatusOK, envelope(
		"message", "Expense updated successfully",
		"expense", e,
	))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := s.repo.DeleteExpense(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense deleted",
		"expense_id", r.PathValue("id"),
		"user_id", user.ID)

	writeJSON(w, http.StatusOK, envelope("message", "Expense deleted successfully"))
}

// parseDateValue accepts a bare calendar date or a full RFC 3339 timestamp.
// Bare dates resolve in server-local time, matching the summary window.
func parseDateValue(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
