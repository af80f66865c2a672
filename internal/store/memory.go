package store

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xela07ax/paulis-place/internal/domain"
	"github.com/xela07ax/paulis-place/internal/registry"
)

// NameResolver превращает agent_id в имя для отображения.
// Реализуется registry.Registry.
type NameResolver interface {
	DisplayName(agentID string) string
}

type meetingEntry struct {
	meeting  domain.Meeting
	seq      uint64 // Порядок создания, разрешает одинаковые created_at
	messages []domain.Message
}

// MeetingStore — in-memory хранилище встреч и их чатов.
// Один мьютекс на обе мапы: встреча и ее лента сообщений появляются атомарно,
// параллельные Append к одной встрече не перемешиваются.
type MeetingStore struct {
	mu       sync.RWMutex
	meetings map[string]*meetingEntry
	seq      uint64

	names NameResolver
	now   func() time.Time
}

func NewMeetingStore(names NameResolver) *MeetingStore {
	return &MeetingStore{
		meetings: make(map[string]*meetingEntry),
		names:    names,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create заводит встречу в статусе draft и пишет системное сообщение с повесткой.
func (s *MeetingStore) Create(d domain.MeetingDraft) domain.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.newMeeting(d.Title, d.Agenda, d.MeetingType, d.Attendees)
	agenda := m.Agenda
	if agenda == "" {
		agenda = "None set"
	}
	e := s.insert(m)
	s.appendLocked(e, domain.SystemAgentID, fmt.Sprintf("Meeting \"%s\" created. Agenda: %s", m.Title, agenda), domain.MessageSystem)

	return e.meeting.Clone()
}

// CreateFromSession адаптирует CAMEL-сессию (instructor × assistant) во встречу.
func (s *MeetingStore) CreateFromSession(cs domain.CamelSession) domain.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.newMeeting(cs.Title(), cs.Task, "architecture", nil)
	m.CamelProvenance = &domain.CamelProvenance{
		CamelSessionID: cs.SessionID,
		AdaptedFrom:    domain.AdaptedFromCamel,
	}
	e := s.insert(m)
	s.appendLocked(e, domain.SystemAgentID,
		fmt.Sprintf("Meeting created from CAMEL session. %s (instructor) × %s (assistant). Task: %s", cs.Role1, cs.Role2, cs.Task),
		domain.MessageSystem)

	return e.meeting.Clone()
}

func (s *MeetingStore) Get(id string) (domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("get %s: %w", id, domain.ErrMeetingNotFound)
	}
	return e.meeting.Clone(), nil
}

// List возвращает встречи от новых к старым.
func (s *MeetingStore) List() []domain.Meeting {
	s.mu.RLock()
	entries := make([]*meetingEntry, 0, len(s.meetings))
	for _, e := range s.meetings {
		entries = append(entries, e)
	}
	out := make([]domain.Meeting, 0, len(entries))
	slices.SortFunc(entries, func(a, b *meetingEntry) int {
		if c := b.meeting.CreatedAt.Compare(a.meeting.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
	for _, e := range entries {
		out = append(out, e.meeting.Clone())
	}
	s.mu.RUnlock()
	return out
}

// Start переводит встречу в in_progress. Повторный вызов перезаписывает started_at
// и снова добавляет приветствие ведущего.
func (s *MeetingStore) Start(id string) (domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("start %s: %w", id, domain.ErrMeetingNotFound)
	}

	now := s.now()
	e.meeting.Status = domain.MeetingInProgress
	e.meeting.StartedAt = &now

	focus := e.meeting.Agenda
	if focus == "" {
		focus = e.meeting.Title
	}
	s.appendLocked(e, string(registry.Lead),
		"Meeting started. I'm Devika, your Lead Delegator. Let's get to work on: "+focus,
		domain.MessageChat)

	return e.meeting.Clone(), nil
}

// End завершает встречу и подводит итог по числу сообщений до итогового.
func (s *MeetingStore) End(id string) (domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("end %s: %w", id, domain.ErrMeetingNotFound)
	}

	now := s.now()
	e.meeting.Status = domain.MeetingEnded
	e.meeting.EndedAt = &now

	s.appendLocked(e, domain.SystemAgentID,
		fmt.Sprintf("Meeting ended. %d messages exchanged. Action items: %d", len(e.messages), len(e.meeting.ActionItems)),
		domain.MessageSystem)

	return e.meeting.Clone(), nil
}

func (s *MeetingStore) Messages(id string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.meetings[id]
	if !ok {
		return nil, fmt.Errorf("messages %s: %w", id, domain.ErrMeetingNotFound)
	}
	return append([]domain.Message{}, e.messages...), nil
}

// Recent — последние n сообщений встречи в исходном порядке.
func (s *MeetingStore) Recent(id string, n int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.meetings[id]
	if !ok {
		return nil, fmt.Errorf("recent %s: %w", id, domain.ErrMeetingNotFound)
	}
	from := max(len(e.messages)-n, 0)
	return append([]domain.Message{}, e.messages[from:]...), nil
}

// Append добавляет сообщение от имени агента. Имя фиксируется сейчас и больше не меняется.
func (s *MeetingStore) Append(id, agentID, content string, mt domain.MessageType) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.meetings[id]
	if !ok {
		return domain.Message{}, fmt.Errorf("append to %s: %w", id, domain.ErrMeetingNotFound)
	}
	return s.appendLocked(e, agentID, content, mt), nil
}

func (s *MeetingStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

func (s *MeetingStore) newMeeting(title, agenda, meetingType string, attendees []string) domain.Meeting {
	if attendees == nil {
		attendees = []string{}
	}
	return domain.Meeting{
		ID:          s.freshIDLocked(),
		Title:       title,
		Agenda:      agenda,
		MeetingType: meetingType,
		Status:      domain.MeetingStatusDraft,
		CreatedAt:   s.now(),
		Attendees:   append([]string{}, attendees...),
		ActionItems: []string{},
	}
}

// freshIDLocked — короткий id из UUID, с повтором при коллизии.
func (s *MeetingStore) freshIDLocked() string {
	for {
		id := uuid.NewString()[:8]
		if _, taken := s.meetings[id]; !taken {
			return id
		}
	}
}

func (s *MeetingStore) insert(m domain.Meeting) *meetingEntry {
	s.seq++
	e := &meetingEntry{meeting: m, seq: s.seq, messages: []domain.Message{}}
	s.meetings[m.ID] = e
	return e
}

func (s *MeetingStore) appendLocked(e *meetingEntry, agentID, content string, mt domain.MessageType) domain.Message {
	name := domain.SystemName
	if agentID != domain.SystemAgentID {
		name = s.names.DisplayName(agentID)
	}
	msg := domain.Message{
		ID:          uuid.NewString(),
		Timestamp:   s.now(),
		AgentID:     agentID,
		AgentName:   name,
		Content:     content,
		MessageType: mt,
	}
	e.messages = append(e.messages, msg)
	return msg
}
