package domain

// AgentID — идентификатор агента флота ("devika", "alex", ...).
type AgentID string

// Visibility определяет, показывается ли агент в комнате.
type Visibility string

const (
	VisibilityOnline  Visibility = "online"  // Участвует в обсуждениях
	VisibilityStandby Visibility = "standby" // Подключен, но не активен
	VisibilityHidden  Visibility = "hidden"  // Не показывается и не отвечает в раундах
)

// Agent — неизменяемое описание агента из реестра флота.
type Agent struct {
	ID           AgentID    `json:"id"`
	Name         string     `json:"name"`     // Имя для отображения в чате
	Codename     string     `json:"codename"` // Например, "DVK-002"
	Role         string     `json:"role"`
	Color        string     `json:"color"`
	AvatarLetter string     `json:"avatar_letter"`
	Repo         string     `json:"repo"` // Репозиторий, где живет агент
	Status       Visibility `json:"status"`
	Bio          string     `json:"bio"`
}

// IsHidden — агент скрыт и не должен попадать в выдачу и раунды.
func (a Agent) IsHidden() bool {
	return a.Status == VisibilityHidden
}
