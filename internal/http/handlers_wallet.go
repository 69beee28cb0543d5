package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contas/internal/core"
)

type createWalletRequest struct {
	Name           string     `json:"name"`
	InitialBalance core.Money `json:"initial_balance"`
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	wallet := core.Wallet{Name: req.Name, InitialBalance: req.InitialBalance}
	if err := wallet.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	created, err := s.store.CreateWallet(r.Context(), wallet)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.store.ListWallets(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if wallets == nil {
		wallets = []core.Wallet{}
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (s *Server) handleWalletDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identificador de carteira inválido")
		return
	}

	detail, err := s.bills.WalletDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
