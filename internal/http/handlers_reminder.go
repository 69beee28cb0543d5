package http

import (
	"net/http"
	"strings"

	"contas/internal/core"
)

// handleMonthlyReminders returns the digest of bills due in the reference
// month. The optional date query parameter (YYYY-MM-DD) overrides the
// default of today, which keeps the endpoint testable around month
// boundaries.
func (s *Server) handleMonthlyReminders(w http.ResponseWriter, r *http.Request) {
	ref := core.Today()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Data de referência inválida, use YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	digest, err := s.bills.MonthlyReminders(r.Context(), ref)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, digest)
}
