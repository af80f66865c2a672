package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "paulis"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanMeetingEvents — все изменения встреч в формате agent-fleet-v1.
	RedisChanMeetingEvents = RedisNamespace + ":meetings:events"
)

// MeetingChannel канал конкретной встречи, для подписчиков одной комнаты.
func MeetingChannel(meetingID string) string {
	return fmt.Sprintf("%s:meetings:%s", RedisNamespace, meetingID)
}
