package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/xela07ax/paulis-place/internal/domain"
)

// Типы событий комнаты
const (
	TypeMeetingCreated  = "meeting.created"
	TypeMeetingStarted  = "meeting.started"
	TypeMeetingEnded    = "meeting.ended"
	TypeMessagePosted   = "message.posted"
	TypeDiscussionRound = "discussion.round"
)

// Broadcast — адресат "всем участникам комнаты".
const Broadcast = "*"

type Party struct {
	AgentID string `json:"agent_id"`
}

type EnvelopeContext struct {
	SessionID string `json:"session_id"` // ID встречи
}

// Envelope — конверт протокола agent-fleet-v1.
type Envelope struct {
	Protocol  string          `json:"protocol"`
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	From      Party           `json:"from"`
	To        Party           `json:"to"`
	Type      string          `json:"type"`
	Payload   any             `json:"payload"`
	Context   EnvelopeContext `json:"context"`
}

func NewEnvelope(from, to, msgType string, payload any, meetingID string) Envelope {
	return Envelope{
		Protocol:  domain.FleetProtocol,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		From:      Party{AgentID: from},
		To:        Party{AgentID: to},
		Type:      msgType,
		Payload:   payload,
		Context:   EnvelopeContext{SessionID: meetingID},
	}
}
