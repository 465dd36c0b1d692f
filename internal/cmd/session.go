package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duetmind/duet/internal/config"
	"github.com/duetmind/duet/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear the saved session",
}

var sessionPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where the session is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		fmt.Println(cfg.Session.ResolveSessionDir())
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved transcript and notepad",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		store, err := session.NewStore(cfg.Session.ResolveSessionDir())
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Session cleared. The next run starts fresh.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionPathCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
