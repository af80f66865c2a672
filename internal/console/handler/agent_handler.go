package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/paulis-place/internal/domain"
)

type AgentLister interface {
	ListAgents(ctx context.Context, includeHidden bool) []domain.Agent
}

type AgentHandler struct {
	service AgentLister
}

func NewAgentHandler(s AgentLister) *AgentHandler {
	return &AgentHandler{service: s}
}

// List GET /api/agents?show_hidden=true — скрытые агенты только по явному запросу
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	showHidden := r.URL.Query().Get("show_hidden") == "true"
	writeJSON(w, http.StatusOK, map[string]any{"agents": h.service.ListAgents(r.Context(), showHidden)})
}
