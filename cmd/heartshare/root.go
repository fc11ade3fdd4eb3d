package main

import (
	"github.com/spf13/cobra"

	"github.com/erazemk/heartshare/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "heartshare",
	Short: "HeartShare community donation marketplace",
	Long: `HeartShare lets donors list items they no longer need and lets
neighbours claim them. Run "heartshare serve" for the server and web pages,
or "heartshare browse" for the terminal browser.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(donateCmd)
}

// loadConfig reads the config file and environment. Command flags that were
// set explicitly take precedence.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("db") {
		cfg.Database, _ = flags.GetString("db")
	}
	if flags.Changed("log") {
		cfg.LogFile, _ = flags.GetString("log")
	}
	if flags.Changed("server") {
		cfg.Server, _ = flags.GetString("server")
	}
	if flags.Changed("state") {
		cfg.StateFile, _ = flags.GetString("state")
	}
	return nil
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", ":8080", "listen address")
	cmd.Flags().StringP("db", "d", "heartshare.sqlite3", "SQLite database path")
	cmd.Flags().StringP("log", "l", "", "log file path (default: stdout/stderr only)")
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("server", "s", "http://localhost:8080", "HeartShare server URL")
}
