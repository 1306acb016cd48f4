package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ai-interview/internal/config"
)

// NewSeedCommand создает команду 'ai-interview seed'
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Load question sets and default slots from a YAML file",
		Long: `Create the question sets listed in the seed file unless they already
exist, and fill default slots that are still empty. Existing sets and
configured slots are left alone, so seeding is safe to repeat.

Without a file argument QUESTION_SETS_FILE is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configureColor(out)

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.cfg.Interview.QuestionSetsFile
	if len(args) == 1 {
		path = args[0]
	}
	seed, err := config.Load(path)
	if err != nil {
		return err
	}

	report, err := a.admin.Seed(commandContext(cmd), seed)
	if err != nil {
		return err
	}

	for _, id := range report.CreatedSets {
		green.Fprintf(out, "✅ created %s\n", id)
	}
	for _, id := range report.SkippedSets {
		gray.Fprintf(out, "• kept existing %s\n", id)
	}
	for _, kind := range report.FilledSlots {
		green.Fprintf(out, "✅ default %s set\n", kind)
	}
	fmt.Fprintf(out, "Seeded from %s: %d created, %d kept, %d defaults filled\n",
		path, len(report.CreatedSets), len(report.SkippedSets), len(report.FilledSlots))
	return nil
}
