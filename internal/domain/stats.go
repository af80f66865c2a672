package domain

import "time"

// FleetProtocol — версия протокола обмена сообщениями между агентами.
const FleetProtocol = "agent-fleet-v1"

// ServiceStatus — ответ /api/status.
type ServiceStatus struct {
	Service       string            `json:"service"`
	Version       string            `json:"version"`
	Status        string            `json:"status"`
	AgentsCount   int               `json:"agents_count"`
	MeetingsCount int               `json:"meetings_count"`
	Uptime        time.Time         `json:"uptime"` // Момент ответа, как в исходном API
	DevikaStatus  map[string]string `json:"devika_status"`
}
