package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-access-gate/internal/application/grant"
	"github.com/go-chi/chi/v5"
)

// GrantHandler redeems grant links.
type GrantHandler struct {
	svc grant.Service
}

func NewGrantHandler(svc grant.Service) *GrantHandler {
	return &GrantHandler{svc: svc}
}

func (h *GrantHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return
	}
	url, err := h.svc.Redeem(r.Context(), token)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("grant redemption failed", "err", err)
			writeError(w, status, "internal error")
			return
		}
		writeError(w, status, http.StatusText(status))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, url, http.StatusFound)
}
