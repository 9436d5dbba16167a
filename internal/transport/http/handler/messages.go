package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-access-gate/internal/application/verification"
	"github.com/go-access-gate/internal/domain"
	"github.com/go-access-gate/internal/pkg/validate"
)

// InboundRequest is one message relayed by the upstream chat source.
type InboundRequest struct {
	Identity string `json:"identity" validate:"required,max=256"`
	Text     string `json:"text" validate:"max=4096"`
	Start    bool   `json:"start"`
}

// MessageHandler feeds inbound messages to the verification flow.
type MessageHandler struct {
	svc verification.Service
}

func NewMessageHandler(svc verification.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req InboundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	replies := h.svc.Handle(r.Context(), domain.InboundMessage{
		Identity: domain.Identity(req.Identity),
		Text:     req.Text,
		Start:    req.Start || isStartCommand(req.Text),
	})
	writeJSON(w, http.StatusOK, RepliesEnvelope{Messages: replies})
}

// isStartCommand matches "/start", "/start@bot" and "/start <payload>".
func isStartCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd == "/start"
}
