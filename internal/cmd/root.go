package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duetmind/duet/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "duet",
	Short: "Two-agent AI discussion orchestrator",
	Long: `Duet runs a structured discussion between two AI agents: Cognito,
a strictly logical analyst, and Muse, a divergent creative thinker.
The agents debate your question over a shared notepad and Cognito
synthesizes a final answer from the discussion.`,
	RunE: runChat,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/duet/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	// One-shot overrides for the most commonly tweaked settings
	rootCmd.Flags().String("mode", "", "discussion mode: fixed or ai-driven")
	rootCmd.Flags().Int("turns", 0, "turn pairs in fixed mode")
	rootCmd.Flags().String("backend", "", "AI backend: gemini or openai")
	_ = viper.BindPFlag("discussion.mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("discussion.fixed_turns", rootCmd.Flags().Lookup("turns"))
	_ = viper.BindPFlag("provider.backend", rootCmd.Flags().Lookup("backend"))
}

func initConfig() {
	// Pick up API keys from a local .env file if one exists
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DUET")
	// Replace dots with underscores for nested keys in env vars
	// e.g., DUET_DISCUSSION_MODE for discussion.mode
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Also honor the conventional provider key variables
	_ = viper.BindEnv("provider.gemini.api_key", "DUET_PROVIDER_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = viper.BindEnv("provider.openai.api_key", "DUET_PROVIDER_OPENAI_API_KEY", "OPENAI_API_KEY")

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
