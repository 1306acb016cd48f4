package interview

import (
	"fmt"
	"strings"
)

// Status - статус жизненного цикла сессии
type Status string

const (
	StatusInfoSubmitted          Status = "info_submitted"
	StatusGeneralInProgress      Status = "general_in_progress"
	StatusAwaitingSpecialization Status = "awaiting_specialization"
	StatusSpecializedInProgress  Status = "specialized_in_progress"
	StatusCompleted              Status = "completed"
	StatusAbandoned              Status = "abandoned"
)

// Valid проверяет, что статус известен
func (s Status) Valid() bool {
	switch s {
	case StatusInfoSubmitted, StatusGeneralInProgress, StatusAwaitingSpecialization,
		StatusSpecializedInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Terminal сообщает, что сессия больше не принимает ответы
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// ParseStatus преобразует строку в Status
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
	}
	return s, nil
}

// Phase - фаза вопросов, на которую отвечает сессия
type Phase string

const (
	PhaseGeneral     Phase = "general"
	PhaseSpecialized Phase = "specialized"
)

// Field - специализация, выбранная кандидатом
type Field string

const (
	FieldNone      Field = "none"
	FieldDeveloper Field = "developer"
	FieldDesigner  Field = "designer"
)

// SelectableFields возвращает специализации, доступные после общей фазы
func SelectableFields() []Field {
	return []Field{FieldDeveloper, FieldDesigner}
}

// Valid проверяет значение, включая FieldNone
func (f Field) Valid() bool {
	switch f {
	case FieldNone, FieldDeveloper, FieldDesigner:
		return true
	}
	return false
}

// Kind возвращает вид набора вопросов для специализации
func (f Field) Kind() (Kind, bool) {
	switch f {
	case FieldDeveloper:
		return KindDeveloper, true
	case FieldDesigner:
		return KindDesigner, true
	case FieldNone:
		return "", false
	}
	return "", false
}

// ParseField принимает только доступные для выбора специализации
func ParseField(raw string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FieldDeveloper, FieldDesigner:
		return f, nil
	case FieldNone:
		return "", fmt.Errorf("%w: %q cannot be selected", ErrInvalidField, raw)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, raw)
}

// Kind - вид набора вопросов, совпадает со слотом в DefaultConfig
type Kind string

const (
	KindGeneral   Kind = "general"
	KindDeveloper Kind = "developer"
	KindDesigner  Kind = "designer"
)

// Kinds возвращает все виды в порядке слотов
func Kinds() []Kind {
	return []Kind{KindGeneral, KindDeveloper, KindDesigner}
}

// Valid проверяет, что вид известен
func (k Kind) Valid() bool {
	switch k {
	case KindGeneral, KindDeveloper, KindDesigner:
		return true
	}
	return false
}

// ParseKind преобразует строку в Kind
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown question set kind %q", ErrValidation, raw)
	}
	return k, nil
}

// AssessmentStatus - вердикт AI или диагностическое значение, если вердикт
// получить не удалось
type AssessmentStatus string

const (
	AssessmentPass        AssessmentStatus = "Pass"
	AssessmentFail        AssessmentStatus = "Fail"
	AssessmentNeedsReview AssessmentStatus = "NeedsReview"

	AssessmentParseError        AssessmentStatus = "parse error"
	AssessmentBlocked           AssessmentStatus = "blocked"
	AssessmentEngineUnavailable AssessmentStatus = "engine unavailable"
	AssessmentEmptyResponse     AssessmentStatus = "empty response"
)

// IsVerdict сообщает, что это один из вердиктов
func (s AssessmentStatus) IsVerdict() bool {
	switch s {
	case AssessmentPass, AssessmentFail, AssessmentNeedsReview:
		return true
	}
	return false
}

// Valid проверяет, что это вердикт или известное диагностическое значение
func (s AssessmentStatus) Valid() bool {
	switch s {
	case AssessmentPass, AssessmentFail, AssessmentNeedsReview,
		AssessmentParseError, AssessmentBlocked, AssessmentEngineUnavailable, AssessmentEmptyResponse:
		return true
	}
	return false
}

// ParseVerdict приводит варианты написания от модели
// ("pass", "Needs Review", "needs_review", ...) к вердикту
func ParseVerdict(raw string) (AssessmentStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "pass", "passed":
		return AssessmentPass, true
	case "fail", "failed":
		return AssessmentFail, true
	case "needsreview", "review":
		return AssessmentNeedsReview, true
	}
	return "", false
}
