package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ai-interview/internal/interview"
)

// NewDefaultsCommand создает группу команд 'ai-interview defaults'
func NewDefaultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show or change the question set used for each phase",
	}
	cmd.AddCommand(newDefaultsShowCommand())
	cmd.AddCommand(newDefaultsSetCommand())
	return cmd
}

func printDefaults(cmd *cobra.Command, cfg *interview.DefaultConfig) {
	out := cmd.OutOrStdout()
	for _, kind := range interview.Kinds() {
		value := gray.Sprint("(not set)")
		if slot := cfg.Slot(kind); slot != nil {
			value = cyan.Sprint(*slot)
		}
		fmt.Fprintf(out, "%-10s %s\n", kind, value)
	}
}

func newDefaultsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the default question sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configureColor(cmd.OutOrStdout())
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.admin.Defaults(commandContext(cmd))
			if err != nil {
				return err
			}
			printDefaults(cmd, cfg)
			return nil
		},
	}
}

func newDefaultsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> <set-id|none>",
		Short: "Point a phase at a question set, or clear it with none",
		Long: `Set the default question set for general, developer or designer. The set
must exist and have the same kind. "none" clears the slot, after which
that phase cannot start.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureColor(cmd.OutOrStdout())
			kind, err := interview.ParseKind(args[0])
			if err != nil {
				return err
			}
			var setID *string
			if id := strings.TrimSpace(args[1]); id != "none" {
				setID = &id
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.admin.SetDefault(commandContext(cmd), kind, setID)
			if err != nil {
				return err
			}
			printDefaults(cmd, cfg)
			return nil
		},
	}
}
