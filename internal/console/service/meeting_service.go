package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/domain"
	"github.com/xela07ax/paulis-place/internal/events"
	"github.com/xela07ax/paulis-place/internal/metrics"
)

const (
	ServiceName    = "paulis-place"
	ServiceVersion = "1.0.0"
)

// MeetingRepository описывает требования к хранилищу встреч.
// Реализуется store.MeetingStore.
type MeetingRepository interface {
	Create(d domain.MeetingDraft) domain.Meeting
	CreateFromSession(cs domain.CamelSession) domain.Meeting
	Get(id string) (domain.Meeting, error)
	List() []domain.Meeting
	Start(id string) (domain.Meeting, error)
	End(id string) (domain.Meeting, error)
	Messages(id string) ([]domain.Message, error)
	Recent(id string, n int) ([]domain.Message, error)
	Append(id, agentID, content string, mt domain.MessageType) (domain.Message, error)
	Count() int
}

// AgentDirectory — доступ к реестру флота. Реализуется registry.Registry.
type AgentDirectory interface {
	List(includeHidden bool) []domain.Agent
	Find(id string) (domain.Agent, bool)
	Len() int
}

type MeetingService struct {
	repo      MeetingRepository
	agents    AgentDirectory
	responder Responder
	events    events.Emitter
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewMeetingService(repo MeetingRepository, agents AgentDirectory, emitter events.Emitter, m *metrics.Metrics, logger *zap.Logger) *MeetingService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &MeetingService{
		repo:      repo,
		agents:    agents,
		responder: NewTemplateResponder(),
		events:    emitter,
		metrics:   m,
		logger:    logger.Named("meeting-service"),
	}
}

// WithResponder подменяет генератор реплик (например, на вызов модели).
func (s *MeetingService) WithResponder(r Responder) *MeetingService {
	s.responder = r
	return s
}

func (s *MeetingService) Status(ctx context.Context) domain.ServiceStatus {
	return domain.ServiceStatus{
		Service:       ServiceName,
		Version:       ServiceVersion,
		Status:        "online",
		AgentsCount:   s.agents.Len(),
		MeetingsCount: s.repo.Count(),
		Uptime:        time.Now().UTC(),
		DevikaStatus:  map[string]string{"status": "Lead Delegator online"},
	}
}

func (s *MeetingService) Integrations(ctx context.Context) domain.IntegrationsStatus {
	return domain.DefaultIntegrations()
}

func (s *MeetingService) ListAgents(ctx context.Context, includeHidden bool) []domain.Agent {
	return s.agents.List(includeHidden)
}

func (s *MeetingService) ListMeetings(ctx context.Context) []domain.Meeting {
	return s.repo.List()
}

func (s *MeetingService) CreateMeeting(ctx context.Context, d domain.MeetingDraft) domain.Meeting {
	m := s.repo.Create(d)
	s.afterCreate(m)
	return m
}

// CreateFromCamel заводит встречу из CAMEL-сессии с отметкой происхождения.
func (s *MeetingService) CreateFromCamel(ctx context.Context, cs domain.CamelSession) domain.Meeting {
	m := s.repo.CreateFromSession(cs)
	s.afterCreate(m)
	return m
}

func (s *MeetingService) afterCreate(m domain.Meeting) {
	s.metrics.MeetingsCreated.Inc()
	s.metrics.MessagesTotal.WithLabelValues(string(domain.MessageSystem)).Inc()
	s.events.Emit(events.NewEnvelope(domain.SystemAgentID, events.Broadcast, events.TypeMeetingCreated, m, m.ID))

	s.logger.Info("meeting created",
		zap.String("meeting_id", m.ID),
		zap.String("title", m.Title),
		zap.String("meeting_type", m.MeetingType),
		zap.Int("attendees", len(m.Attendees)))
}

func (s *MeetingService) GetMeeting(ctx context.Context, id string) (domain.Meeting, error) {
	return s.repo.Get(id)
}

func (s *MeetingService) StartMeeting(ctx context.Context, id string) (domain.Meeting, error) {
	m, err := s.repo.Start(id)
	if err != nil {
		return domain.Meeting{}, err
	}
	s.metrics.MessagesTotal.WithLabelValues(string(domain.MessageChat)).Inc()
	s.events.Emit(events.NewEnvelope(domain.SystemAgentID, events.Broadcast, events.TypeMeetingStarted, m, m.ID))
	s.logger.Info("meeting started", zap.String("meeting_id", id))
	return m, nil
}

func (s *MeetingService) EndMeeting(ctx context.Context, id string) (domain.Meeting, error) {
	m, err := s.repo.End(id)
	if err != nil {
		return domain.Meeting{}, err
	}
	s.metrics.MessagesTotal.WithLabelValues(string(domain.MessageSystem)).Inc()
	s.events.Emit(events.NewEnvelope(domain.SystemAgentID, events.Broadcast, events.TypeMeetingEnded, m, m.ID))
	s.logger.Info("meeting ended", zap.String("meeting_id", id))
	return m, nil
}

func (s *MeetingService) Messages(ctx context.Context, id string) ([]domain.Message, error) {
	return s.repo.Messages(id)
}

// PostMessage добавляет сообщение участника в чат встречи.
func (s *MeetingService) PostMessage(ctx context.Context, id, agentID, content string, mt domain.MessageType) (domain.Message, error) {
	msg, err := s.repo.Append(id, agentID, content, mt)
	if err != nil {
		return domain.Message{}, fmt.Errorf("post message: %w", err)
	}
	s.metrics.MessagesTotal.WithLabelValues(messageTypeLabel(mt)).Inc()
	s.events.Emit(events.NewEnvelope(agentID, events.Broadcast, events.TypeMessagePosted, msg, id))
	s.logger.Debug("message posted",
		zap.String("meeting_id", id),
		zap.String("agent_id", agentID),
		zap.String("message_type", string(mt)))
	return msg, nil
}

// messageTypeLabel: тип приходит от клиента, в метрику попадают только известные значения
func messageTypeLabel(mt domain.MessageType) string {
	switch mt {
	case domain.MessageSystem, domain.MessageChat:
		return string(mt)
	default:
		return "other"
	}
}
