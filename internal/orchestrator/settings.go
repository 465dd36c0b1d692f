package orchestrator

import (
	"time"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/config"
	"github.com/duetmind/duet/internal/provider"
)

// AgentSettings selects the model and reasoning effort for one agent.
type AgentSettings struct {
	Model    string
	Thinking *provider.ThinkingConfig
}

// Settings is an immutable snapshot of the knobs a flow runs with. A
// flow captures its settings at start, so config changes apply from the
// next flow onward.
type Settings struct {
	Mode           chat.DiscussionMode
	FixedTurns     int
	MaxAutoRetries int
	RetryDelayBase time.Duration
	Cognito        AgentSettings
	Muse           AgentSettings
}

// SettingsFromConfig maps the loaded configuration onto a flow settings
// snapshot.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Mode:           chat.DiscussionMode(cfg.Discussion.Mode),
		FixedTurns:     cfg.Discussion.FixedTurns,
		MaxAutoRetries: cfg.Discussion.MaxAutoRetries,
		RetryDelayBase: cfg.Discussion.RetryDelayBase(),
		Cognito:        agentSettings(cfg.Agents.Cognito),
		Muse:           agentSettings(cfg.Agents.Muse),
	}
}

func agentSettings(cfg config.AgentConfig) AgentSettings {
	out := AgentSettings{Model: cfg.Model}
	// A zero budget disables thinking entirely.
	if cfg.ThinkingBudget != 0 {
		out.Thinking = &provider.ThinkingConfig{
			Budget: cfg.ThinkingBudget,
			Level:  cfg.ThinkingLevel,
		}
	}
	return out
}

// agent returns the settings for the agent speaking in the given step.
func (s Settings) agent(id StepID) AgentSettings {
	if id.Sender() == chat.SenderMuse {
		return s.Muse
	}
	return s.Cognito
}
