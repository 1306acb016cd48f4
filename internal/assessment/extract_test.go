package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interview/internal/interview"
)

const validJSON = `{
  "overall_summary": "Solid candidate.",
  "strengths": [{"point": "Clear communication", "evidence": "G1, S2"}],
  "weaknesses": ["Limited testing experience"],
  "status": "Pass",
  "suitability_for_field": "Strong fit",
  "suggested_positions": ["Backend engineer"],
  "suggestions_if_not_pass": null
}`

func TestParseFencedAndUnfencedAgree(t *testing.T) {
	inputs := map[string]string{
		"plain":              validJSON,
		"json fence":         "```json\n" + validJSON + "\n```",
		"bare fence":         "```\n" + validJSON + "\n```",
		"upper fence":        "```JSON\n" + validJSON + "\n```",
		"padded":             "\n\n  ```json\n" + validJSON + "\n```  \n",
		"fence no newline":   "```json" + validJSON + "```",
		"leading prose":      "Here is the assessment:\n" + validJSON + "\nHope this helps.",
		"only closing fence": validJSON + "\n```",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, "Solid candidate.", got.OverallSummary)
			assert.Equal(t, interview.AssessmentPass, got.Status)
			assert.Equal(t, []interview.EvidencePoint{{Point: "Clear communication", Evidence: "G1, S2"}}, got.Strengths)
			assert.Equal(t, []interview.EvidencePoint{{Point: "Limited testing experience"}}, got.Weaknesses)
			assert.Equal(t, "Strong fit", got.SuitabilityForField)
			assert.Equal(t, []string{"Backend engineer"}, got.SuggestedPositions)
			assert.Empty(t, got.SuggestionsIfNotPass)
			assert.Equal(t, in, got.RawProviderText)
		})
	}
}

func TestParseStatusNormalization(t *testing.T) {
	tests := map[string]interview.AssessmentStatus{
		"pass":         interview.AssessmentPass,
		"PASSED":       interview.AssessmentPass,
		"fail":         interview.AssessmentFail,
		"Needs Review": interview.AssessmentNeedsReview,
		"needs_review": interview.AssessmentNeedsReview,
		"needs-review": interview.AssessmentNeedsReview,
		"NeedsReview":  interview.AssessmentNeedsReview,
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := Parse(`{"status": "` + raw + `"}`)
			require.NoError(t, err)
			assert.Equal(t, want, got.Status)
			assert.NotNil(t, got.Strengths)
			assert.NotNil(t, got.Weaknesses)
			assert.NotNil(t, got.SuggestedPositions)
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"prose", "The candidate did well.", ErrMalformed},
		{"empty", "", ErrMalformed},
		{"trailing comma", `{"status": "Pass",}`, ErrMalformed},
		{"truncated", "```json\n{\"status\": \"Pass\"", ErrMalformed},
		{"unknown status", `{"status": "Maybe"}`, ErrUnknownStatus},
		{"missing status", `{"overall_summary": "ok"}`, ErrUnknownStatus},
		{"localized status", `{"status": "Đạt"}`, ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseLooseFieldTypes(t *testing.T) {
	got, err := Parse(`{
		"status": "Fail",
		"suggested_positions": "Junior designer",
		"suggestions_if_not_pass": ["Build a portfolio", "Practice critiques"],
		"suitability_for_field": null
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Junior designer"}, got.SuggestedPositions)
	assert.Equal(t, "Build a portfolio; Practice critiques", got.SuggestionsIfNotPass)
	assert.Empty(t, got.SuitabilityForField)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("  {\"a\":1}  "))
	assert.Equal(t, "", StripFences("```\n```"))
}
