package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/domain"
)

// MeetingService Описываем, что нам нужно от сервиса
type MeetingService interface {
	ListMeetings(ctx context.Context) []domain.Meeting
	CreateMeeting(ctx context.Context, d domain.MeetingDraft) domain.Meeting
	CreateFromCamel(ctx context.Context, cs domain.CamelSession) domain.Meeting
	GetMeeting(ctx context.Context, id string) (domain.Meeting, error)
	StartMeeting(ctx context.Context, id string) (domain.Meeting, error)
	EndMeeting(ctx context.Context, id string) (domain.Meeting, error)
	Messages(ctx context.Context, id string) ([]domain.Message, error)
	PostMessage(ctx context.Context, id, agentID, content string, mt domain.MessageType) (domain.Message, error)
	RunDiscussion(ctx context.Context, id string, topic *string, agents []string) ([]domain.Message, error)
}

type MeetingHandler struct {
	service MeetingService
	logger  *zap.Logger
}

func NewMeetingHandler(s MeetingService, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{service: s, logger: logger.Named("meeting-handler")}
}

// Routes Маршруты для Chi, монтируются на /api/meetings
func (h *MeetingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/from-camel", h.FromCamel)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/start", h.Start)
		r.Post("/end", h.End)
		r.Get("/messages", h.Messages)
		r.Post("/messages", h.PostMessage)
		r.Post("/agent-discuss", h.Discuss)
	})
	return r
}

// List GET /api/meetings — от новых к старым
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"meetings": h.service.ListMeetings(r.Context())})
}

// Create POST /api/meetings
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMeetingRequest
	h.decode(r, &req)

	m := h.service.CreateMeeting(r.Context(), req.Draft())
	writeJSON(w, http.StatusCreated, map[string]any{"meeting": m})
}

// FromCamel POST /api/meetings/from-camel
func (h *MeetingHandler) FromCamel(w http.ResponseWriter, r *http.Request) {
	var req domain.CamelRequest
	h.decode(r, &req)

	m := h.service.CreateFromCamel(r.Context(), req.Session())
	writeJSON(w, http.StatusCreated, map[string]any{"meeting": m})
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMeeting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meeting": m})
}

func (h *MeetingHandler) Start(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.StartMeeting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meeting": m})
}

func (h *MeetingHandler) End(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.EndMeeting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meeting": m})
}

func (h *MeetingHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.Messages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// PostMessage POST /api/meetings/{id}/messages
func (h *MeetingHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.PostMessageRequest
	h.decode(r, &req)

	agentID, content, mt := req.Resolve()
	msg, err := h.service.PostMessage(r.Context(), chi.URLParam(r, "id"), agentID, content, mt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

// Discuss POST /api/meetings/{id}/agent-discuss — раунд заготовленных реплик агентов
func (h *MeetingHandler) Discuss(w http.ResponseWriter, r *http.Request) {
	var req domain.DiscussRequest
	h.decode(r, &req)

	responses, err := h.service.RunDiscussion(r.Context(), chi.URLParam(r, "id"), req.Topic, req.Agents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": responses, "count": len(responses)})
}

// decode не отклоняет запрос: недостающие поля заполнятся дефолтами.
func (h *MeetingHandler) decode(r *http.Request, dst any) {
	if err := decodeLenient(r, dst); err != nil {
		h.logger.Debug("malformed request body, using defaults",
			zap.String("path", r.URL.Path), zap.Error(err))
	}
}
