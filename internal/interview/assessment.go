package interview

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EvidencePoint - сильная или слабая сторона вместе с подтверждением из стенограммы
type EvidencePoint struct {
	Point    string `json:"point"`
	Evidence string `json:"evidence"`
}

// UnmarshalJSON принимает и {"point": ..., "evidence": ...}, и просто строку
func (p *EvidencePoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*p = EvidencePoint{Point: text}
		return nil
	}
	type plain EvidencePoint
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("evidence point: %w", err)
	}
	*p = EvidencePoint(out)
	return nil
}

// OverallAssessment представляет итоговую оценку завершенной сессии
type OverallAssessment struct {
	OverallSummary       string           `json:"overall_summary"`
	Strengths            []EvidencePoint  `json:"strengths"`
	Weaknesses           []EvidencePoint  `json:"weaknesses"`
	Status               AssessmentStatus `json:"status"`
	SuitabilityForField  string           `json:"suitability_for_field"`
	SuggestedPositions   []string         `json:"suggested_positions"`
	SuggestionsIfNotPass string           `json:"suggestions_if_not_pass"`
	RawProviderText      string           `json:"raw_provider_text"`
}

// Fallback создает оценку, которая сохраняется, когда вердикт получить не удалось
func Fallback(status AssessmentStatus, summary, raw string) *OverallAssessment {
	return &OverallAssessment{
		OverallSummary:     summary,
		Strengths:          []EvidencePoint{},
		Weaknesses:         []EvidencePoint{},
		Status:             status,
		SuggestedPositions: []string{},
		RawProviderText:    raw,
	}
}
