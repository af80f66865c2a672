package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/paulis-place/internal/domain"
)

// StatusService Описываем, что нам нужно от сервиса
type StatusService interface {
	Status(ctx context.Context) domain.ServiceStatus
	Integrations(ctx context.Context) domain.IntegrationsStatus
}

type DashboardHandler struct {
	service StatusService
}

func NewDashboardHandler(s StatusService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStatus GET /api/status — здоровье сервиса и счетчики
func (h *DashboardHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// GetIntegrations GET /api/integrations/status
func (h *DashboardHandler) GetIntegrations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Integrations(r.Context()))
}
