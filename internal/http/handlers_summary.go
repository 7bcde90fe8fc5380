package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	summary, err := s.repo.MonthlySummary(r.Context(), user.ID, time.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope(
		"month", core.MonthKey(time.Now()),
		"summary", summary,
	))
}
