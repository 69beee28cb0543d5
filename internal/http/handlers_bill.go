package http

import (
	"net/http"
	"strings"

	"contas/internal/core"
	"contas/internal/services"
)

type createBillRequest struct {
	Description string     `json:"description"`
	Value       core.Money `json:"value"`
	DueDate     core.Date  `json:"due_date"`
	WalletID    int64      `json:"wallet_id"`
	CategoryID  int64      `json:"category_id"`
}

type createRecurringBillRequest struct {
	Description  string     `json:"description"`
	TotalValue   core.Money `json:"total_value"`
	Installments int        `json:"installments"`
	StartDate    core.Date  `json:"start_date"`
	WalletID     int64      `json:"wallet_id"`
	CategoryID   int64      `json:"category_id"`
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	bill := core.Bill{
		Description: strings.TrimSpace(req.Description),
		Value:       req.Value,
		DueDate:     req.DueDate,
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
	}
	created, err := s.bills.CreateBill(r.Context(), bill)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	billsCreated.Inc()
	writeJSON(w, http.StatusCreated, created)
}

// handleCreateRecurringBill runs the installment generator and persists
// its whole output atomically; the response carries the full series.
func (s *Server) handleCreateRecurringBill(w http.ResponseWriter, r *http.Request) {
	var req createRecurringBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	plan := services.InstallmentPlan{
		Description: strings.TrimSpace(req.Description),
		Total:       req.TotalValue,
		Count:       req.Installments,
		Start:       req.StartDate,
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
	}
	created, err := s.bills.CreateSeries(r.Context(), plan)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	seriesCreated.Inc()
	installmentsCreated.Add(float64(len(created)))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.store.ListBills(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if bills == nil {
		bills = []core.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}
