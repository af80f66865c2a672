package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/console/handler"
	"github.com/xela07ax/paulis-place/internal/metrics"
)

type MeetingRoomServer struct {
	router  *chi.Mux
	logger  *zap.Logger
	metrics *metrics.Metrics

	// Обработчики бизнес-доменов
	dashHandler    *handler.DashboardHandler // /api/status, /api/integrations/status
	agentHandler   *handler.AgentHandler     // /api/agents
	meetingHandler *handler.MeetingHandler   // /api/meetings
}

// NewMeetingRoomServer собирает роутер meeting room со всеми зависимостями
func NewMeetingRoomServer(
	logger *zap.Logger,
	m *metrics.Metrics,
	dashH *handler.DashboardHandler,
	agentH *handler.AgentHandler,
	meetingH *handler.MeetingHandler,
) *MeetingRoomServer {
	s := &MeetingRoomServer{
		router:         chi.NewRouter(),
		logger:         logger.Named("meeting-room-api"),
		metrics:        m,
		dashHandler:    dashH,
		agentHandler:   agentH,
		meetingHandler: meetingH,
	}

	s.routes()
	return s
}

func (s *MeetingRoomServer) routes() {
	r := s.router

	// --- Инфраструктурные Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(AccessLog(s.logger))
	r.Use(s.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.dashHandler.GetStatus)
		r.Get("/integrations/status", s.dashHandler.GetIntegrations)
		r.Get("/agents", s.agentHandler.List)
		r.Mount("/meetings", s.meetingHandler.Routes())
	})
}

// ServeHTTP позволяет использовать MeetingRoomServer как стандартный http.Handler
func (s *MeetingRoomServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
