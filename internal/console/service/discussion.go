package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/domain"
	"github.com/xela07ax/paulis-place/internal/events"
	"github.com/xela07ax/paulis-place/internal/registry"
)

const (
	contextWindow = 5  // Сколько последних сообщений попадает в сводку
	excerptRunes  = 80 // Длина выдержки из каждого сообщения
	summarySep    = " | "
)

// DefaultParticipants отвечают в раунде, если состав не задан. Pauli скрыт и не участвует.
var DefaultParticipants = []domain.AgentID{
	registry.Devika, registry.Alex, registry.Darya, registry.Synthia, registry.ClawdBot, registry.Cynthia,
}

// RunDiscussion прогоняет раунд: каждый видимый агент из списка добавляет по реплике.
// Неизвестные и скрытые агенты пропускаются без ошибки. agentIDs == nil — состав по умолчанию.
func (s *MeetingService) RunDiscussion(ctx context.Context, meetingID string, topic *string, agentIDs []string) ([]domain.Message, error) {
	m, err := s.repo.Get(meetingID)
	if err != nil {
		return nil, err
	}

	// Без явной темы обсуждается повестка, даже пустая
	resolvedTopic := m.Agenda
	if topic != nil {
		resolvedTopic = *topic
	}

	recent, err := s.repo.Recent(meetingID, contextWindow)
	if err != nil {
		return nil, err
	}
	summary := SummarizeContext(recent)

	if agentIDs == nil {
		agentIDs = make([]string, 0, len(DefaultParticipants))
		for _, id := range DefaultParticipants {
			agentIDs = append(agentIDs, string(id))
		}
	}

	responses := make([]domain.Message, 0, len(agentIDs))
	for _, id := range agentIDs {
		agent, ok := s.agents.Find(id)
		if !ok || agent.IsHidden() {
			s.logger.Debug("agent skipped in discussion", zap.String("agent_id", id), zap.Bool("known", ok))
			continue
		}

		content := s.responder.Respond(agent, resolvedTopic, summary)
		msg, err := s.repo.Append(meetingID, id, content, domain.MessageChat)
		if err != nil {
			return nil, fmt.Errorf("discussion round: %w", err)
		}
		responses = append(responses, msg)
	}

	s.metrics.DiscussionResponses.Add(float64(len(responses)))
	s.metrics.MessagesTotal.WithLabelValues(string(domain.MessageChat)).Add(float64(len(responses)))
	s.events.Emit(events.NewEnvelope(domain.SystemAgentID, events.Broadcast, events.TypeDiscussionRound, responses, meetingID))

	s.logger.Info("discussion round finished",
		zap.String("meeting_id", meetingID),
		zap.String("topic", resolvedTopic),
		zap.Int("requested", len(agentIDs)),
		zap.Int("responses", len(responses)))

	return responses, nil
}

// SummarizeContext собирает "имя: выдержка" по последним сообщениям.
func SummarizeContext(msgs []domain.Message) string {
	if len(msgs) > contextWindow {
		msgs = msgs[len(msgs)-contextWindow:]
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.AgentName+": "+excerpt(m.Content, excerptRunes))
	}
	return strings.Join(parts, summarySep)
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
