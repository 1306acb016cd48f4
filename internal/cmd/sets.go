package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ai-interview/internal/admin"
	"ai-interview/internal/interview"
)

// NewSetsCommand создает группу команд 'ai-interview sets'
func NewSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Manage question sets",
	}
	cmd.AddCommand(newSetsListCommand())
	cmd.AddCommand(newSetsShowCommand())
	cmd.AddCommand(newSetsCreateCommand())
	cmd.AddCommand(newSetsImportCommand())
	cmd.AddCommand(newSetsUpdateCommand())
	cmd.AddCommand(newSetsDeleteCommand())
	return cmd
}

func newSetsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List question sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			configureColor(out)
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			kind, _ := cmd.Flags().GetString("kind")
			sets, err := a.admin.ListQuestionSets(commandContext(cmd), interview.Kind(kind))
			if err != nil {
				return err
			}
			if len(sets) == 0 {
				fmt.Fprintln(out, "No question sets. Run 'ai-interview seed' to load the defaults.")
				return nil
			}
			for _, set := range sets {
				printSet(out, set)
			}
			return nil
		},
	}
	cmd.Flags().String("kind", "", "only sets of this kind (general, developer, designer)")
	return cmd
}

func newSetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <set-id>",
		Short: "Show a question set as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := a.admin.GetQuestionSet(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), set)
		},
	}
}

func newSetsCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a question set from flags",
		Example: `  ai-interview sets create --name "Backend" --kind developer \
    --question "Which position are you applying for?" \
    --question "Describe a production incident you handled."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			name, _ := cmd.Flags().GetString("name")
			kind, _ := cmd.Flags().GetString("kind")
			texts, _ := cmd.Flags().GetStringArray("question")

			in := admin.NewQuestionSet{ID: id, Name: name, Kind: interview.Kind(kind)}
			for _, text := range texts {
				in.Questions = append(in.Questions, admin.QuestionInput{Text: text})
			}
			return createSets(cmd, []admin.NewQuestionSet{in})
		},
	}
	cmd.Flags().String("id", "", "set id (generated when empty)")
	cmd.Flags().String("name", "", "set name")
	cmd.Flags().String("kind", "", "set kind: general, developer or designer")
	cmd.Flags().StringArray("question", nil, "question text, repeat in asking order")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

// setsFile описывает YAML файл для 'sets import'
type setsFile struct {
	QuestionSets []admin.NewQuestionSet `yaml:"question_sets"`
}

func newSetsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create question sets from a YAML file",
		Long: `Create every set listed under question_sets in the file. Questions are
objects with text and optional id and order. Import stops at the first set
that fails; sets created before it are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var file setsFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(file.QuestionSets) == 0 {
				return fmt.Errorf("%s contains no question_sets", args[0])
			}
			return createSets(cmd, file.QuestionSets)
		},
	}
}

func createSets(cmd *cobra.Command, sets []admin.NewQuestionSet) error {
	out := cmd.OutOrStdout()
	configureColor(out)
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, in := range sets {
		set, err := a.admin.CreateQuestionSet(commandContext(cmd), in)
		if err != nil {
			return err
		}
		green.Fprint(out, "✅ created ")
		printSet(out, set)
	}
	return nil
}

func newSetsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <set-id>",
		Short: "Rename a set, change its kind or replace its questions",
		Long: `Update the given parts of a question set. --question replaces the whole
question list. The kind of a set used as a default cannot be changed.
Running interviews keep the questions they started with.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configureColor(out)

			var upd admin.QuestionSetUpdate
			if f := cmd.Flags().Lookup("name"); f.Changed {
				name := f.Value.String()
				upd.Name = &name
			}
			if f := cmd.Flags().Lookup("kind"); f.Changed {
				kind := interview.Kind(f.Value.String())
				upd.Kind = &kind
			}
			if cmd.Flags().Changed("question") {
				texts, _ := cmd.Flags().GetStringArray("question")
				upd.Questions = []admin.QuestionInput{}
				for _, text := range texts {
					upd.Questions = append(upd.Questions, admin.QuestionInput{Text: text})
				}
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := a.admin.UpdateQuestionSet(commandContext(cmd), args[0], upd)
			if err != nil {
				return err
			}
			green.Fprint(out, "✅ updated ")
			printSet(out, set)
			return nil
		},
	}
	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("kind", "", "new kind")
	cmd.Flags().StringArray("question", nil, "replacement question text, repeat in asking order")
	return cmd
}

func newSetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <set-id>",
		Short: "Delete a question set that is not a default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configureColor(out)
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.admin.DeleteQuestionSet(commandContext(cmd), args[0]); err != nil {
				return err
			}
			green.Fprintf(out, "✅ deleted %s\n", args[0])
			return nil
		},
	}
}
