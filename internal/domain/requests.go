package domain

import "encoding/json"

// Значения по умолчанию: отсутствующие поля запроса не отклоняются, а подставляются.
const (
	DefaultMeetingTitle = "Untitled Meeting"
	DefaultMeetingType  = "standup"
	DefaultRole1        = "Agent A"
	DefaultRole2        = "Agent B"
	DefaultCamelTask    = "Collaborative discussion"
)

// CreateMeetingRequest — тело POST /api/meetings. Указатели отличают "нет поля" от пустой строки.
type CreateMeetingRequest struct {
	Title        *string  `json:"title"`
	Agenda       *string  `json:"agenda"`
	MeetingType  *string  `json:"meeting_type"`
	InviteAgents []string `json:"invite_agents"`
}

func (r CreateMeetingRequest) Draft() MeetingDraft {
	attendees := r.InviteAgents
	if attendees == nil {
		attendees = []string{}
	}
	return MeetingDraft{
		Title:       valueOr(r.Title, DefaultMeetingTitle),
		Agenda:      valueOr(r.Agenda, ""),
		MeetingType: valueOr(r.MeetingType, DefaultMeetingType),
		Attendees:   attendees,
	}
}

// PostMessageRequest — тело POST /api/meetings/{id}/messages.
type PostMessageRequest struct {
	AgentID     *string `json:"agent_id"`
	Content     *string `json:"content"`
	MessageType *string `json:"message_type"`
}

func (r PostMessageRequest) Resolve() (agentID, content string, mt MessageType) {
	return valueOr(r.AgentID, UserAgentID),
		valueOr(r.Content, ""),
		MessageType(valueOr(r.MessageType, string(MessageChat)))
}

// DiscussRequest — тело POST /api/meetings/{id}/agent-discuss.
// Agents == nil означает состав по умолчанию.
type DiscussRequest struct {
	Topic  *string  `json:"topic"`
	Agents []string `json:"agents"`
}

// CamelRequest — описание CAMEL-сессии для /from-camel.
type CamelRequest struct {
	SessID json.RawMessage `json:"sessId"`
	Role1  *string         `json:"role1"`
	Role2  *string         `json:"role2"`
	Task   *string         `json:"task"`
}

func (r CamelRequest) Session() CamelSession {
	return CamelSession{
		SessionID: r.SessionID(),
		Role1:     valueOr(r.Role1, DefaultRole1),
		Role2:     valueOr(r.Role2, DefaultRole2),
		Task:      valueOr(r.Task, DefaultCamelTask),
	}
}

// SessionID отдает sessId как есть (число, строка или null).
func (r CamelRequest) SessionID() any {
	if len(r.SessID) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(r.SessID, &v); err != nil {
		return nil
	}
	return v
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
