package admin

import (
	"context"
	"errors"
	"fmt"

	"ai-interview/internal/config"
	"ai-interview/internal/interview"
	"ai-interview/internal/repository"
)

// SeedReport перечисляет, что изменило заполнение
type SeedReport struct {
	CreatedSets []string
	SkippedSets []string
	FilledSlots []interview.Kind
}

// Seed создает отсутствующие наборы из файла и заполняет пустые слоты.
// Существующие наборы и слоты не перезаписываются, поэтому Seed можно
// запускать при каждом старте
func (s *Service) Seed(ctx context.Context, seed *config.SeedFile) (*SeedReport, error) {
	report := &SeedReport{}

	for _, set := range seed.QuestionSets {
		_, err := s.sets.Get(ctx, set.ID)
		if err == nil {
			report.SkippedSets = append(report.SkippedSets, set.ID)
			continue
		}
		if !errors.Is(err, interview.ErrNotFound) {
			return nil, err
		}

		questions := make([]QuestionInput, len(set.Questions))
		for i, text := range set.Questions {
			questions[i] = QuestionInput{Text: text}
		}
		_, err = s.CreateQuestionSet(ctx, NewQuestionSet{
			ID:        set.ID,
			Name:      set.Name,
			Kind:      interview.Kind(set.Kind),
			Questions: questions,
		})
		if errors.Is(err, interview.ErrDuplicateID) {
			report.SkippedSets = append(report.SkippedSets, set.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed question set %s: %w", set.ID, err)
		}
		report.CreatedSets = append(report.CreatedSets, set.ID)
	}

	wanted := map[interview.Kind]string{
		interview.KindGeneral:   seed.Defaults.General,
		interview.KindDeveloper: seed.Defaults.Developer,
		interview.KindDesigner:  seed.Defaults.Designer,
	}
	done := false
	for attempt := 0; attempt < maxWriteAttempts && !done; attempt++ {
		cfg, err := s.EnsureDefaults(ctx)
		if err != nil {
			return nil, err
		}

		report.FilledSlots = nil
		for _, kind := range interview.Kinds() {
			id := wanted[kind]
			if id == "" || cfg.Slot(kind) != nil {
				continue
			}
			if err := s.checkSlot(ctx, kind, &id); err != nil {
				return nil, err
			}
			cfg.SetSlot(kind, &id)
			report.FilledSlots = append(report.FilledSlots, kind)
		}
		if len(report.FilledSlots) == 0 {
			done = true
			break
		}

		cfg.UpdatedAt = s.now()
		err = s.settings.SaveDefaults(ctx, cfg)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed default configuration: %w", err)
		}
		done = true
	}
	if !done {
		return nil, fmt.Errorf("seed default configuration: %w", repository.ErrConflict)
	}

	s.log.Info().
		Strs("created", report.CreatedSets).
		Strs("skipped", report.SkippedSets).
		Int("filled_slots", len(report.FilledSlots)).
		Msg("seeding finished")
	return report, nil
}
