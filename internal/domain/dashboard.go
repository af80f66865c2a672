package domain

// IntegrationsStatus — статический снимок интеграций для /api/integrations/status.
type IntegrationsStatus struct {
	OpenClawWS   PortStatus    `json:"openclaw_ws"`   // Шлюз OpenClaw (WebSocket)
	OpenClawHTTP PortStatus    `json:"openclaw_http"` // Шлюз OpenClaw (HTTP)
	ACIP         VersionStatus `json:"acip"`
	CASS         SimpleStatus  `json:"cass"`
	CAUT         SimpleStatus  `json:"caut"`
	Protocol     string        `json:"protocol"`
}

type PortStatus struct {
	Port   int    `json:"port"`
	Status string `json:"status"`
}

type VersionStatus struct {
	Version string `json:"version"`
	Status  string `json:"status"`
}

type SimpleStatus struct {
	Status string `json:"status"`
}

// DefaultIntegrations — конфигурация интеграций флота.
func DefaultIntegrations() IntegrationsStatus {
	return IntegrationsStatus{
		OpenClawWS:   PortStatus{Port: 18789, Status: "configured"},
		OpenClawHTTP: PortStatus{Port: 18790, Status: "configured"},
		ACIP:         VersionStatus{Version: "1.3", Status: "active"},
		CASS:         SimpleStatus{Status: "available"},
		CAUT:         SimpleStatus{Status: "available"},
		Protocol:     FleetProtocol,
	}
}
