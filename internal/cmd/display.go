package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"ai-interview/internal/interview"
)

var (
	cyan   = color.New(color.FgCyan, color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
)

// configureColor отключает цвета, когда вывод идет не в терминал
func configureColor(out io.Writer) {
	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		color.NoColor = true
	}
}

func verdictColor(status interview.AssessmentStatus) *color.Color {
	switch status {
	case interview.AssessmentPass:
		return green
	case interview.AssessmentFail:
		return red
	case interview.AssessmentNeedsReview:
		return yellow
	}
	return gray
}

func statusColor(status interview.Status) *color.Color {
	switch status {
	case interview.StatusCompleted:
		return green
	case interview.StatusAbandoned:
		return red
	case interview.StatusInfoSubmitted:
		return gray
	}
	return yellow
}

func printAssessment(out io.Writer, a *interview.OverallAssessment) {
	if a == nil {
		return
	}
	cyan.Fprintln(out, "\n📊 Overall assessment")
	fmt.Fprintf(out, "Status: %s\n", verdictColor(a.Status).Sprint(a.Status))
	if a.OverallSummary != "" {
		fmt.Fprintf(out, "Summary: %s\n", a.OverallSummary)
	}
	printPoints(out, "Strengths", a.Strengths)
	printPoints(out, "Weaknesses", a.Weaknesses)
	if a.SuitabilityForField != "" {
		fmt.Fprintf(out, "Suitability: %s\n", a.SuitabilityForField)
	}
	if len(a.SuggestedPositions) > 0 {
		fmt.Fprintf(out, "Suggested positions: %s\n", strings.Join(a.SuggestedPositions, ", "))
	}
	if a.SuggestionsIfNotPass != "" {
		fmt.Fprintf(out, "Suggestions: %s\n", a.SuggestionsIfNotPass)
	}
}

func printPoints(out io.Writer, title string, points []interview.EvidencePoint) {
	if len(points) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, p := range points {
		if p.Evidence != "" {
			fmt.Fprintf(out, "  • %s %s\n", p.Point, gray.Sprintf("(%s)", p.Evidence))
		} else {
			fmt.Fprintf(out, "  • %s\n", p.Point)
		}
	}
}

func printSet(out io.Writer, set *interview.QuestionSet) {
	cyan.Fprintf(out, "%s", set.ID)
	fmt.Fprintf(out, "  %s  [%s]  %d questions\n", set.Name, set.Kind, len(set.Questions))
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}
