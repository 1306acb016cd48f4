// Package assessment строит итоговую оценку сессии.
package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-interview/internal/interview"
)

var (
	ErrMalformed     = errors.New("assessment is not a JSON object")
	ErrUnknownStatus = errors.New("assessment status is not a known verdict")
)

// wireAssessment - формат, который запрашивается у модели. Текстовые поля
// хранятся как RawMessage: модель иногда отдает в них массив или null
type wireAssessment struct {
	OverallSummary       json.RawMessage           `json:"overall_summary"`
	Strengths            []interview.EvidencePoint `json:"strengths"`
	Weaknesses           []interview.EvidencePoint `json:"weaknesses"`
	Status               string                    `json:"status"`
	SuitabilityForField  json.RawMessage           `json:"suitability_for_field"`
	SuggestedPositions   stringList                `json:"suggested_positions"`
	SuggestionsIfNotPass json.RawMessage           `json:"suggestions_if_not_pass"`
}

// stringList принимает массив строк, одну строку или null
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s != "" {
			*l = stringList{s}
		}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Parse извлекает оценку из ответа модели. Убирает markdown ограждение,
// а если остаток не разбирается, пробует внешний фрагмент {...}.
// raw сохраняется в RawProviderText как есть
func Parse(raw string) (*interview.OverallAssessment, error) {
	wire, err := decodeObject(StripFences(raw))
	if err != nil {
		start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, err
		}
		if wire, err = decodeObject(raw[start : end+1]); err != nil {
			return nil, err
		}
	}

	status, ok := interview.ParseVerdict(wire.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, wire.Status)
	}

	out := &interview.OverallAssessment{
		OverallSummary:       text(wire.OverallSummary),
		Strengths:            nonNil(wire.Strengths),
		Weaknesses:           nonNil(wire.Weaknesses),
		Status:               status,
		SuitabilityForField:  text(wire.SuitabilityForField),
		SuggestedPositions:   []string(wire.SuggestedPositions),
		SuggestionsIfNotPass: text(wire.SuggestionsIfNotPass),
		RawProviderText:      raw,
	}
	if out.SuggestedPositions == nil {
		out.SuggestedPositions = []string{}
	}
	return out, nil
}

// StripFences убирает начальную строку ``` или ```json и конечный ```
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeObject(s string) (*wireAssessment, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, ErrMalformed
	}
	var wire wireAssessment
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &wire, nil
}

// text превращает JSON значение любого типа в текст
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err == nil {
		return strings.Join(items, "; ")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func nonNil(points []interview.EvidencePoint) []interview.EvidencePoint {
	if points == nil {
		return []interview.EvidencePoint{}
	}
	return points
}
