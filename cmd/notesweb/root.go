package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notesweb/internal/config"
	applog "notesweb/internal/log"
)

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "notesweb",
	Short: "Multi-user notes web application",
	Long: `notesweb serves a server-rendered notes application: users register,
log in and keep private notes with tags and a priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		level := os.Getenv("LOG_LEVEL")
		if verbose {
			level = "debug"
		}
		applog.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "listen address, overrides ADDR")
}
