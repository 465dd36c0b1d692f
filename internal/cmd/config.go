package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duetmind/duet/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Duet configuration",
	Long: `View or modify Duet configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  duet config set discussion.mode ai-driven
  duet config set discussion.fixed_turns 3
  duet config set agents.muse.model gemini-2.5-flash

Valid keys:
  provider.backend            - AI backend: gemini or openai
  provider.openai.base_url    - OpenAI-compatible API root
  agents.cognito.model        - Model for the logical agent
  agents.cognito.thinking_budget - Reasoning token budget (-1 auto, 0 off)
  agents.cognito.thinking_level  - Reasoning level: low or high
  agents.muse.model           - Model for the creative agent
  agents.muse.thinking_budget - Reasoning token budget (-1 auto, 0 off)
  agents.muse.thinking_level  - Reasoning level: low or high
  discussion.mode             - fixed or ai-driven
  discussion.fixed_turns      - Turn pairs in fixed mode
  discussion.max_auto_retries - Automatic retries per failed step
  tui.show_notepad            - Open the notepad pane on startup
  tui.show_thoughts           - Show model reasoning in the transcript
  session.autosave            - Persist the session after every turn`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/duet/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("provider:")
	fmt.Printf("  backend: %s\n", cfg.Provider.Backend)
	if cfg.Provider.Backend == "openai" {
		fmt.Printf("  openai.base_url: %s\n", cfg.Provider.OpenAI.BaseURL)
	}

	fmt.Println("agents:")
	fmt.Printf("  cognito.model: %s\n", cfg.Agents.Cognito.Model)
	fmt.Printf("  cognito.thinking_budget: %d\n", cfg.Agents.Cognito.ThinkingBudget)
	fmt.Printf("  muse.model: %s\n", cfg.Agents.Muse.Model)
	fmt.Printf("  muse.thinking_budget: %d\n", cfg.Agents.Muse.ThinkingBudget)

	fmt.Println("discussion:")
	fmt.Printf("  mode: %s\n", cfg.Discussion.Mode)
	fmt.Printf("  fixed_turns: %d\n", cfg.Discussion.FixedTurns)
	fmt.Printf("  max_auto_retries: %d\n", cfg.Discussion.MaxAutoRetries)

	fmt.Println("tui:")
	fmt.Printf("  show_notepad: %v\n", cfg.TUI.ShowNotepad)
	fmt.Printf("  show_thoughts: %v\n", cfg.TUI.ShowThoughts)

	fmt.Println("session:")
	fmt.Printf("  dir: %s\n", cfg.Session.ResolveSessionDir())
	fmt.Printf("  autosave: %v\n", cfg.Session.Autosave)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	validKeys := map[string]string{
		"provider.backend":               "string",
		"provider.openai.base_url":       "string",
		"agents.cognito.model":           "string",
		"agents.cognito.thinking_budget": "int",
		"agents.cognito.thinking_level":  "string",
		"agents.muse.model":              "string",
		"agents.muse.thinking_budget":    "int",
		"agents.muse.thinking_level":     "string",
		"discussion.mode":                "string",
		"discussion.fixed_turns":         "int",
		"discussion.max_auto_retries":    "int",
		"tui.show_notepad":               "bool",
		"tui.show_thoughts":              "bool",
		"session.autosave":               "bool",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'duet config set --help' to see valid keys", key)
	}

	var typedValue interface{}
	switch keyType {
	case "string":
		if key == "provider.backend" && !slices.Contains(config.ValidBackends(), value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidBackends(), ", "))
		}
		if key == "discussion.mode" && !slices.Contains(config.ValidDiscussionModes(), value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidDiscussionModes(), ", "))
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	}

	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'duet config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}
