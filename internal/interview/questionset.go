package interview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question представляет один вопрос редактируемого набора
type Question struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// QuestionSet представляет набор вопросов одного вида, который ведет администратор
type QuestionSet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      Kind       `json:"kind"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Revision  int64      `json:"revision"`
}

// Validate проверяет набор при чтении и записи
func (qs *QuestionSet) Validate() error {
	if strings.TrimSpace(qs.ID) == "" {
		return fmt.Errorf("%w: question set id is empty", ErrValidation)
	}
	if strings.TrimSpace(qs.Name) == "" {
		return fmt.Errorf("%w: question set %q has no name", ErrValidation, qs.ID)
	}
	if !qs.Kind.Valid() {
		return fmt.Errorf("%w: question set %q has unknown kind %q", ErrValidation, qs.ID, qs.Kind)
	}
	seen := make(map[string]bool, len(qs.Questions))
	for i, q := range qs.Questions {
		if _, err := uuid.Parse(q.ID); err != nil {
			return fmt.Errorf("%w: question %d of set %q has invalid id %q", ErrValidation, i, qs.ID, q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: question id %s repeated in set %q", ErrValidation, q.ID, qs.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d of set %q has no text", ErrValidation, i, qs.ID)
		}
	}
	return nil
}

// Snapshot возвращает копию вопросов, упорядоченную по Order.
// При равном Order сохраняется порядок хранения
func (qs *QuestionSet) Snapshot() []QuestionSnapshot {
	out := make([]QuestionSnapshot, len(qs.Questions))
	for i, q := range qs.Questions {
		out[i] = QuestionSnapshot{ID: q.ID, Text: q.Text, Order: q.Order}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// NewQuestions создает вопросы с новыми id в переданном порядке, начиная с 1
func NewQuestions(texts ...string) []Question {
	out := make([]Question, 0, len(texts))
	for i, text := range texts {
		out = append(out, Question{
			ID:    uuid.NewString(),
			Text:  strings.TrimSpace(text),
			Order: i + 1,
		})
	}
	return out
}

// DefaultConfigID - id единственного документа с наборами по умолчанию
const DefaultConfigID = "default_question_sets"

// DefaultConfig связывает каждый вид фазы с набором вопросов.
// nil означает, что фаза не настроена
type DefaultConfig struct {
	ID             string    `json:"id"`
	GeneralSetID   *string   `json:"general_set_id"`
	DeveloperSetID *string   `json:"developer_set_id"`
	DesignerSetID  *string   `json:"designer_set_id"`
	UpdatedAt      time.Time `json:"updated_at"`
	Revision       int64     `json:"revision"`
}

// Slot возвращает id набора для kind или nil
func (c *DefaultConfig) Slot(kind Kind) *string {
	switch kind {
	case KindGeneral:
		return c.GeneralSetID
	case KindDeveloper:
		return c.DeveloperSetID
	case KindDesigner:
		return c.DesignerSetID
	}
	return nil
}

// SetSlot заменяет слот для kind
func (c *DefaultConfig) SetSlot(kind Kind, setID *string) {
	switch kind {
	case KindGeneral:
		c.GeneralSetID = setID
	case KindDeveloper:
		c.DeveloperSetID = setID
	case KindDesigner:
		c.DesignerSetID = setID
	}
}

// References возвращает виды, слоты которых ссылаются на setID
func (c *DefaultConfig) References(setID string) []Kind {
	var kinds []Kind
	for _, kind := range Kinds() {
		if slot := c.Slot(kind); slot != nil && *slot == setID {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
