package cmd

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/config"
	"github.com/duetmind/duet/internal/logging"
	"github.com/duetmind/duet/internal/notepad"
	"github.com/duetmind/duet/internal/orchestrator"
	"github.com/duetmind/duet/internal/prompt"
	"github.com/duetmind/duet/internal/provider"
	"github.com/duetmind/duet/internal/session"
	"github.com/duetmind/duet/internal/tui"
)

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.Nop()
	if cfg.Logging.Enabled {
		logger = logging.New(logging.Options{
			Path:       config.LogFile(),
			Level:      strings.ToUpper(cfg.Logging.Level),
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
	}
	defer logger.Close()

	client, err := provider.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Session.ResolveSessionDir())
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	// Resume the previous session if one was saved.
	snap := store.Load()
	log := chat.NewLogFromMessages(snap.Messages)
	padContent := snap.Notepad
	if padContent == "" {
		padContent = prompt.InitialNotepad
	}
	pad := notepad.NewEngine(padContent)

	if log.Len() == 0 {
		log.Welcome(welcomeText(cfg))
	}

	opts := []tui.Option{tui.WithConfig(cfg.TUI)}
	if cfg.Session.Autosave {
		opts = append(opts, tui.WithPersist(func() {
			if err := store.Save(session.Snapshot{
				Messages: log.Messages(),
				Notepad:  pad.Content(),
			}); err != nil {
				logger.Warn("session autosave failed", "error", err)
			}
		}))
	}
	app := tui.New(log, pad, opts...)

	orch := orchestrator.New(client, log, pad, logger,
		orchestrator.WithStatusSink(app))
	orch.SetSettings(orchestrator.SettingsFromConfig(cfg))
	app.SetOrchestrator(orch)

	// Apply config file edits to subsequent discussions without a restart.
	viper.OnConfigChange(func(e fsnotify.Event) {
		next, err := config.Load()
		if err != nil {
			logger.Warn("ignoring config change", "file", e.Name, "error", err)
			return
		}
		orch.SetSettings(orchestrator.SettingsFromConfig(next))
		log.PatchWelcome(welcomeText(next))
		logger.Info("configuration reloaded", "file", e.Name)
	})
	viper.WatchConfig()

	logger.Info("starting duet",
		"backend", client.Name(),
		"cognito", cfg.Agents.Cognito.Model,
		"muse", cfg.Agents.Muse.Model,
		"mode", cfg.Discussion.Mode)

	return app.Run()
}

func welcomeText(cfg *config.Config) string {
	mode := "The discussion continues until both agents agree to stop."
	if cfg.Discussion.Mode == string(chat.ModeFixedTurns) {
		turns := "turns"
		if cfg.Discussion.FixedTurns == 1 {
			turns = "turn"
		}
		mode = fmt.Sprintf("The discussion runs for %d %s.", cfg.Discussion.FixedTurns, turns)
	}
	return fmt.Sprintf(
		"Welcome to Duet. Cognito (%s) and Muse (%s) will discuss your question together and agree on an answer. %s Type a question below to begin.",
		cfg.Agents.Cognito.Model, cfg.Agents.Muse.Model, mode)
}
