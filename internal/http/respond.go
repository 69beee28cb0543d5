// Package http exposes the JSON API: wallets, categories, bills, the
// installment endpoint and the monthly reminder digest.
//
// This file holds the response helpers and the mapping from domain errors
// to HTTP status codes.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"contas/internal/core"
)

// errorBody matches the {"detail": "..."} error shape of the API.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeDomainError maps the error taxonomy onto status codes: validation
// failures are 422 with the offending field named, unresolved references
// are 404, duplicates are 400, anything else is a 500 with a generic body.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, core.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "Carteira não encontrada")
	case errors.Is(err, core.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "Categoria não encontrada")
	case errors.Is(err, core.ErrBillNotFound):
		writeError(w, http.StatusNotFound, "Conta não encontrada")
	case errors.Is(err, core.ErrCategoryExists):
		writeError(w, http.StatusBadRequest, "Categoria já existe")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Erro interno")
	}
}

// decodeJSON parses the request body into dst, rejecting unknown fields so
// client typos surface instead of silently validating an empty value.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
