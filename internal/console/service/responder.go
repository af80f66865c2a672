package service

import (
	"fmt"

	"github.com/xela07ax/paulis-place/internal/domain"
	"github.com/xela07ax/paulis-place/internal/registry"
)

// Responder генерирует реплику агента в раунде обсуждения.
// recent — сводка последних сообщений встречи.
type Responder interface {
	Respond(agent domain.Agent, topic, recent string) string
}

type replyTemplate func(topic string) string

// TemplateResponder — заготовленные реплики по ролям вместо вызова модели.
type TemplateResponder struct {
	templates map[domain.AgentID]replyTemplate
	fallback  replyTemplate
}

func NewTemplateResponder() *TemplateResponder {
	return &TemplateResponder{
		templates: map[domain.AgentID]replyTemplate{
			registry.Devika: func(topic string) string {
				return fmt.Sprintf("I'll coordinate the team on '%s'. Let me break this down into tasks and assign to the right agents. Alex, can you handle the architecture? DARYA, I need UI/UX concepts.", topic)
			},
			registry.Alex: func(topic string) string {
				return fmt.Sprintf("On it. I'll create a PRD for '%s', then run it through my Architect → Engineer → QA pipeline. Estimating 2 sprint cycles for production-ready output.", topic)
			},
			registry.Darya: func(topic string) string {
				return fmt.Sprintf("I'll design the visual identity for '%s'. Luna can handle the social media rollout, and Aurora will track our KPIs. Expect mood boards and wireframes within 24h.", topic)
			},
			registry.Synthia: func(topic string) string {
				return fmt.Sprintf("I can set up voice interactions for '%s'. I'll configure the LiveKit pipeline and prepare ElevenLabs voice clone for call workflows.", topic)
			},
			registry.ClawdBot: func(topic string) string {
				return fmt.Sprintf("I'll handle the messaging distribution for '%s'. WhatsApp broadcast, Telegram notifications, and SMS alerts. OpenClaw gateway is ready at :18789.", topic)
			},
			registry.Cynthia: func(topic string) string {
				return fmt.Sprintf("I'll monitor the fleet during '%s' execution. ACIP compliance check passed. All agent heartbeats nominal. No PII exposure detected in recent messages.", topic)
			},
			registry.Aurora: func(topic string) string {
				return fmt.Sprintf("Dashboard metrics for '%s': Agent utilization at 72%%, response latency p99 at 340ms, task completion rate 94%%. All KPIs green.", topic)
			},
			registry.Maya: func(topic string) string {
				return fmt.Sprintf("I'll prepare the fundraising angle for '%s'. Donor outreach sequences ready, A/B testing email campaigns primed.", topic)
			},
			registry.Luna: func(topic string) string {
				return fmt.Sprintf("Viral content strategy for '%s' locked in. 3 TikTok hooks scripted, IG carousel template ready, 2 Shorts concepts drafted.", topic)
			},
		},
		fallback: func(topic string) string {
			return fmt.Sprintf("Acknowledged re: '%s'. Standing by for task assignment from Devika.", topic)
		},
	}
}

// Respond не использует сводку: шаблоны зависят только от темы.
func (r *TemplateResponder) Respond(agent domain.Agent, topic, _ string) string {
	if t, ok := r.templates[agent.ID]; ok {
		return t(topic)
	}
	return r.fallback(topic)
}
