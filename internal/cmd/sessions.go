package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ai-interview/internal/engine"
)

// NewSessionsCommand создает группу команд 'ai-interview sessions'
func NewSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and manage interview sessions",
	}
	cmd.AddCommand(newSessionsListCommand())
	cmd.AddCommand(newSessionsShowCommand())
	cmd.AddCommand(newSessionsAbandonCommand())
	cmd.AddCommand(newSessionsExportCommand())
	cmd.AddCommand(newSessionsResultsCommand())
	return cmd
}

func newSessionsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			configureColor(out)

			var f engine.ListFilter
			f.Status, _ = cmd.Flags().GetString("status")
			f.Verdict, _ = cmd.Flags().GetString("verdict")
			f.Skip, _ = cmd.Flags().GetInt("skip")
			f.Limit, _ = cmd.Flags().GetInt("limit")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sessions, err := a.engine.ListSessions(commandContext(cmd), f)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}
			for _, s := range sessions {
				verdict := gray.Sprint("-")
				if s.OverallAssessment != nil {
					verdict = verdictColor(s.OverallAssessment.Status).Sprint(s.OverallAssessment.Status)
				}
				fmt.Fprintf(out, "%s  %s  %-24s  %-10s  %s  %s\n",
					s.ID,
					s.CreatedAt.Format("2006-01-02 15:04"),
					statusColor(s.Status).Sprint(s.Status),
					s.SelectedField,
					verdict,
					s.Candidate.FullName)
			}
			return nil
		},
	}
	cmd.Flags().String("status", "", "only sessions with this lifecycle status")
	cmd.Flags().String("verdict", "", "only sessions whose assessment has this status")
	cmd.Flags().Int("skip", 0, "number of sessions to skip")
	cmd.Flags().Int("limit", engine.DefaultListLimit, fmt.Sprintf("maximum sessions to list (1-%d)", engine.MaxListLimit))
	return cmd
}

func newSessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.engine.GetSession(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sess)
		},
	}
}

func newSessionsAbandonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <session-id>",
		Short: "End a running session without an assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configureColor(out)
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.engine.AbandonSession(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			yellow.Fprintf(out, "Session %s abandoned\n", sess.ID)
			return nil
		},
	}
}

func newSessionsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <session-id>",
		Short: "Write a finished session to the results directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configureColor(out)
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.engine.GetSession(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			path, err := a.results.SaveResult(sess)
			if err != nil {
				return err
			}
			green.Fprintf(out, "✅ Result saved to %s\n", path)
			return nil
		},
	}
}

func newSessionsResultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "results [session-id]",
		Short: "List exported results, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				result, err := a.results.LoadResult(args[0])
				if err != nil {
					return err
				}
				return printJSON(out, result)
			}

			ids, err := a.results.ListResults()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintf(out, "No results in %s\n", a.cfg.Interview.ResultsDir)
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}
