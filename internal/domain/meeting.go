package domain

import (
	"errors"
	"fmt"
	"time"
)

// Статусы жизненного цикла встречи
type MeetingStatus string

const (
	MeetingStatusDraft MeetingStatus = "draft"
	MeetingInProgress  MeetingStatus = "in_progress"
	MeetingEnded       MeetingStatus = "ended"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
)

// AdaptedFromCamel — метка происхождения встреч, созданных из CAMEL-сессии.
const AdaptedFromCamel = "GPT-Agent-im-ready"

type Meeting struct {
	ID          string        `json:"id"` // 8 символов UUID
	Title       string        `json:"title"`
	Agenda      string        `json:"agenda"`
	MeetingType string        `json:"meeting_type"`
	Status      MeetingStatus `json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	Attendees   []string `json:"attendees"` // Не сверяются с реестром
	ActionItems []string `json:"action_items"`

	// Только у встреч из CAMEL-сессии; у обычных ключей в JSON нет
	*CamelProvenance
}

// CamelProvenance — отметка происхождения. camel_session_id пишется всегда, даже null.
type CamelProvenance struct {
	CamelSessionID any    `json:"camel_session_id"`
	AdaptedFrom    string `json:"adapted_from"`
}

// Clone возвращает копию без общих срезов и указателей.
func (m Meeting) Clone() Meeting {
	c := m
	c.Attendees = append([]string{}, m.Attendees...)
	c.ActionItems = append([]string{}, m.ActionItems...)
	if m.StartedAt != nil {
		t := *m.StartedAt
		c.StartedAt = &t
	}
	if m.EndedAt != nil {
		t := *m.EndedAt
		c.EndedAt = &t
	}
	if m.CamelProvenance != nil {
		p := *m.CamelProvenance
		c.CamelProvenance = &p
	}
	return c
}

// MeetingDraft — входные данные для создания встречи (уже с дефолтами).
type MeetingDraft struct {
	Title       string
	Agenda      string
	MeetingType string
	Attendees   []string
}

// CamelSession описывает диалог двух ролей CAMEL над задачей.
type CamelSession struct {
	SessionID any
	Role1     string // instructor
	Role2     string // assistant
	Task      string
}

// Title — заголовок встречи, созданной из CAMEL-сессии.
func (cs CamelSession) Title() string {
	return fmt.Sprintf("CAMEL: %s × %s", cs.Role1, cs.Role2)
}
