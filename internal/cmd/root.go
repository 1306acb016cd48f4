// Package cmd содержит команды CLI ai-interview.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version задается при сборке через -ldflags
var Version = "dev"

// NewRootCommand создает корневую команду ai-interview
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai-interview",
		Short: "AI-assisted candidate interviews",
		Long: `ai-interview runs structured candidate interviews: a general question
phase, a specialized phase for the chosen field, AI feedback on every
answer and a final AI assessment of the whole session.

Question sets and the default set for each phase are managed with the
sets, defaults and seed commands.`,
		Version:      Version,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("env-file", ".env", "environment file to load before reading configuration")
	flags.String("store", "", "store driver: bolt, sqlite or mongo (overrides STORE_DRIVER)")
	flags.String("db", "", "database file for bolt and sqlite (overrides STORE_PATH)")

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewSetsCommand())
	cmd.AddCommand(NewDefaultsCommand())
	cmd.AddCommand(NewSessionsCommand())

	return cmd
}
