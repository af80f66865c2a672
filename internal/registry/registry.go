// Package registry holds the fixed roster of fleet agents.
package registry

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/xela07ax/paulis-place/internal/domain"
)

// Known agent identifiers.
const (
	Pauli      domain.AgentID = "pauli"
	AgentZero  domain.AgentID = "agent_zero"
	Devika     domain.AgentID = "devika"
	Alex       domain.AgentID = "alex"
	Darya      domain.AgentID = "darya"
	Synthia    domain.AgentID = "synthia"
	ClawdBot   domain.AgentID = "clawdbot"
	Cynthia    domain.AgentID = "cynthia"
	VisionClaw domain.AgentID = "visionclaw"
	Maya       domain.AgentID = "maya"
	Luna       domain.AgentID = "luna"
	Aurora     domain.AgentID = "aurora"
)

// Lead opens every meeting.
const Lead = Devika

var fleet = []domain.Agent{
	{ID: Pauli, Name: "Pauli", Codename: "PLI-000", Role: "Shadow Leader — Microsoft Lightning Agent", Color: "#6366f1", AvatarLetter: "P", Repo: "GPT-Agent-im-ready", Status: domain.VisibilityHidden, Bio: "Sees everything. Word is law. Avatar hidden unless summoned."},
	{ID: AgentZero, Name: "Agent Zero", Codename: "AZ-001", Role: "Root Orchestrator", Color: "#f43f5e", AvatarLetter: "0", Repo: "agent-zero-Fork", Status: domain.VisibilityOnline, Bio: "Root orchestrator. Receives from archon-os, routes to Devika."},
	{ID: Devika, Name: "Devika", Codename: "DVK-002", Role: "Lead Delegator", Color: "#06b6d4", AvatarLetter: "D", Repo: "devika-agent", Status: domain.VisibilityOnline, Bio: "Lead Delegator. ALL tasks flow through Devika."},
	{ID: Alex, Name: "Alex", Codename: "ALX-003", Role: "SOP-Driven Dev Company", Color: "#10b981", AvatarLetter: "A", Repo: "MetaGPT", Status: domain.VisibilityOnline, Bio: "MetaGPT-powered software company. Architecture, code, QA."},
	{ID: Darya, Name: "DARYA vΩ", Codename: "DRY-004", Role: "Creative Director", Color: "#a855f7", AvatarLetter: "Ω", Repo: "dashboard-agent-swarm", Status: domain.VisibilityOnline, Bio: "Creative Director. UI/UX, brand, content. Commands the 5 Cuties."},
	{ID: Synthia, Name: "SYNTHIA", Codename: "SYN-005", Role: "Voice AI Agent", Color: "#ec4899", AvatarLetter: "S", Repo: "voice-agents-fork", Status: domain.VisibilityOnline, Bio: "Voice layer. Phone calls, ElevenLabs TTS, LiveKit."},
	{ID: ClawdBot, Name: "ClawdBot", Codename: "CLW-006", Role: "Multi-Channel Messaging", Color: "#f59e0b", AvatarLetter: "C", Repo: "clawdbot-Whatsapp-agent", Status: domain.VisibilityOnline, Bio: "WhatsApp, Telegram, SMS. OpenClaw gateway operator."},
	{ID: Cynthia, Name: "Cynthia", Codename: "CYN-007", Role: "Observability & Safety", Color: "#14b8a6", AvatarLetter: "Y", Repo: "open-agent-platform-pauli", Status: domain.VisibilityOnline, Bio: "Monitors fleet health. ACIP compliance. PII redaction."},
	{ID: VisionClaw, Name: "VisionClaw", Codename: "VCL-008", Role: "Computer Vision", Color: "#64748b", AvatarLetter: "V", Repo: "VisionClaw", Status: domain.VisibilityStandby, Bio: "Image classification, OCR, video analysis."},
	{ID: Maya, Name: "Maya", Codename: "MYA-101", Role: "Fundraising & Donor Relations", Color: "#fb923c", AvatarLetter: "M", Repo: "dashboard-agent-swarm", Status: domain.VisibilityOnline, Bio: "Fundraising flows, donor relations, voice outreach."},
	{ID: Luna, Name: "Luna", Codename: "LNA-102", Role: "UGC & Virality", Color: "#c084fc", AvatarLetter: "L", Repo: "dashboard-agent-swarm", Status: domain.VisibilityOnline, Bio: "Short-form video, viral hooks, TikTok/IG/Shorts."},
	{ID: Aurora, Name: "Aurora", Codename: "AUR-105", Role: "Ops & KPI Dashboards", Color: "#38bdf8", AvatarLetter: "R", Repo: "dashboard-agent-swarm", Status: domain.VisibilityOnline, Bio: "Metrics tracking, KPIs, performance dashboards."},
}

// Registry is a read-only lookup over a fixed agent list.
type Registry struct {
	agents []domain.Agent
	byID   map[domain.AgentID]domain.Agent
}

// New returns the registry of the built-in fleet.
func New() *Registry {
	return NewWithAgents(fleet)
}

// NewWithAgents builds a registry over an arbitrary roster. Order is preserved.
func NewWithAgents(agents []domain.Agent) *Registry {
	r := &Registry{
		agents: append([]domain.Agent{}, agents...),
		byID:   make(map[domain.AgentID]domain.Agent, len(agents)),
	}
	for _, a := range agents {
		r.byID[a.ID] = a
	}
	return r
}

// List returns the roster, skipping hidden agents unless includeHidden is set.
func (r *Registry) List(includeHidden bool) []domain.Agent {
	if includeHidden {
		return append([]domain.Agent{}, r.agents...)
	}
	return lo.Filter(r.agents, func(a domain.Agent, _ int) bool {
		return !a.IsHidden()
	})
}

func (r *Registry) Find(id string) (domain.Agent, bool) {
	a, ok := r.byID[domain.AgentID(id)]
	return a, ok
}

// Len is the total number of agents, hidden included.
func (r *Registry) Len() int {
	return len(r.agents)
}

// DisplayName resolves the author name stored on a message.
func (r *Registry) DisplayName(id string) string {
	if a, ok := r.Find(id); ok {
		return a.Name
	}
	if id == domain.UserAgentID {
		return domain.UserName
	}
	return capitalize(id)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
