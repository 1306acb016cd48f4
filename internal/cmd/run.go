package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ai-interview/internal/engine"
	"ai-interview/internal/interview"
)

// NewRunCommand создает команду 'ai-interview run'
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Conduct an interview in the terminal",
		Long: `Run an interview interactively: the candidate answers the general
questions, chooses a field, answers the specialized questions and receives
the final assessment. Every answer gets AI feedback.

Closing input (Ctrl-D) pauses the interview; continue it later with --resume.

--candidate-file reads the candidate profile from YAML (full_name, email,
education_level, key_skills, career_goal_short and the other profile keys).
--name and --email override the values from the file.`,
		Args: cobra.NoArgs,
		RunE: runInterview,
	}

	cmd.Flags().String("name", "", "candidate full name")
	cmd.Flags().String("email", "", "candidate email")
	cmd.Flags().String("candidate-file", "", "YAML file with the candidate profile")
	cmd.Flags().String("field", "", "specialization to choose after the general phase (developer or designer)")
	cmd.Flags().String("resume", "", "continue the session with this id")
	cmd.Flags().Bool("no-export", false, "do not write the result file when the interview completes")

	return cmd
}

// interviewRun хранит состояние одного интерактивного интервью
type interviewRun struct {
	app      *app
	out      io.Writer
	scanner  *bufio.Scanner
	field    string
	// fromFile запрещает повторный ввод анкеты: ошибки файла возвращаются сразу
	fromFile bool
}

func runInterview(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	configureColor(out)

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	field, _ := cmd.Flags().GetString("field")
	r := &interviewRun{
		app:     a,
		out:     out,
		scanner: bufio.NewScanner(cmd.InOrStdin()),
		field:   field,
	}

	cyan.Fprintln(out, "🚀 AI interview")
	gray.Fprintf(out, "AI provider: %s\n\n", a.provider)

	sessionID, _ := cmd.Flags().GetString("resume")
	if sessionID == "" {
		var info interview.CandidateInfo
		if path, _ := cmd.Flags().GetString("candidate-file"); path != "" {
			if info, err = loadCandidate(path); err != nil {
				return err
			}
			r.fromFile = true
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			info.FullName = name
		}
		if email, _ := cmd.Flags().GetString("email"); email != "" {
			info.Email = email
		}
		sess, err := r.createSession(ctx, info)
		if err != nil {
			return err
		}
		sessionID = sess.ID
	}

	sess, err := r.conduct(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		yellow.Fprintf(out, "\n⏸  Interview paused. Continue with: ai-interview run --resume %s\n", sessionID)
		return nil
	}

	printAssessment(out, sess.OverallAssessment)
	if noExport, _ := cmd.Flags().GetBool("no-export"); !noExport {
		path, err := a.results.SaveResult(sess)
		if err != nil {
			return fmt.Errorf("export result: %w", err)
		}
		green.Fprintf(out, "\n✅ Result saved to %s\n", path)
	}
	return nil
}

// ask печатает подсказку и читает непустую строку. ok=false означает конец ввода.
func (r *interviewRun) ask(prompt string) (string, bool) {
	for {
		fmt.Fprint(r.out, prompt)
		if !r.scanner.Scan() {
			return "", false
		}
		if line := strings.TrimSpace(r.scanner.Text()); line != "" {
			return line, true
		}
		yellow.Fprintln(r.out, "Please give an answer.")
	}
}

// loadCandidate читает анкету кандидата из YAML файла
func loadCandidate(path string) (interview.CandidateInfo, error) {
	var info interview.CandidateInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parse %s: %w", path, err)
	}
	return info, nil
}

func (r *interviewRun) createSession(ctx context.Context, info interview.CandidateInfo) (*interview.Session, error) {
	for {
		var ok bool
		if info.FullName == "" {
			if info.FullName, ok = r.ask("Full name: "); !ok {
				return nil, io.ErrUnexpectedEOF
			}
		}
		if info.Email == "" {
			if info.Email, ok = r.ask("Email: "); !ok {
				return nil, io.ErrUnexpectedEOF
			}
		}

		sess, err := r.app.engine.CreateSession(ctx, info)
		if errors.Is(err, interview.ErrValidation) && !r.fromFile {
			red.Fprintf(r.out, "⚠️  %v\n", err)
			info.FullName, info.Email = "", ""
			continue
		}
		if err != nil {
			return nil, err
		}
		gray.Fprintf(r.out, "Session %s\n\n", sess.ID)
		return sess, nil
	}
}

// conduct ведет сессию до завершения. Возвращает nil, nil если ввод закончился раньше.
func (r *interviewRun) conduct(ctx context.Context, id string) (*interview.Session, error) {
	eng := r.app.engine

	q, err := eng.CurrentQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	for {
		if q == nil {
			sess, err := eng.GetSession(ctx, id)
			if err != nil {
				return nil, err
			}
			switch sess.Status {
			case interview.StatusAwaitingSpecialization:
				if q, err = r.selectField(ctx, id); err != nil || q == nil {
					return nil, err
				}
			case interview.StatusCompleted:
				return sess, nil
			default:
				if q, err = eng.StartGeneralPhase(ctx, id); err != nil {
					return nil, err
				}
			}
		}

		if q.Number == 1 {
			cyan.Fprintf(r.out, "\n== %s QUESTIONS ==\n", strings.ToUpper(string(q.Phase)))
		}
		fmt.Fprintf(r.out, "\nQuestion %d/%d: %s\n", q.Number, q.Total, q.Text)
		answer, ok := r.ask("Your answer: ")
		if !ok {
			return nil, nil
		}

		res, err := eng.SubmitAnswer(ctx, id, q.ID, answer)
		if errors.Is(err, interview.ErrOutOfOrder) {
			// сессию продвинул другой клиент
			yellow.Fprintln(r.out, "The session moved on elsewhere, reloading.")
			if q, err = eng.CurrentQuestion(ctx, id); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		gray.Fprintf(r.out, "💬 %s\n", res.Feedback)
		q = res.NextQuestion
	}
}

func (r *interviewRun) selectField(ctx context.Context, id string) (*engine.QuestionView, error) {
	var names []string
	for _, f := range interview.SelectableFields() {
		names = append(names, string(f))
	}

	field := r.field
	for {
		if field == "" {
			var ok bool
			if field, ok = r.ask(fmt.Sprintf("\nChoose your field (%s): ", strings.Join(names, ", "))); !ok {
				return nil, nil
			}
		}
		q, err := r.app.engine.SelectField(ctx, id, field)
		if errors.Is(err, interview.ErrInvalidField) {
			red.Fprintf(r.out, "⚠️  %q is not one of: %s\n", field, strings.Join(names, ", "))
			field, r.field = "", ""
			continue
		}
		return q, err
	}
}
