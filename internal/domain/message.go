package domain

import "time"

type MessageType string

const (
	MessageSystem MessageType = "system"
	MessageChat   MessageType = "chat"
)

// Идентификаторы авторов, которых нет в реестре
const (
	SystemAgentID = "system"
	SystemName    = "System"
	UserAgentID   = "user" // Неаутентифицированный участник
	UserName      = "User"
)

// Message — запись в чате встречи. Только добавляется, порядок — порядок вставки.
type Message struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	AgentID     string      `json:"agent_id"`
	AgentName   string      `json:"agent_name"` // Фиксируется в момент добавления
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
}
