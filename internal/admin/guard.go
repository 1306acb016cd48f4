package admin

import (
	"context"
	"errors"
	"fmt"

	"ai-interview/internal/interview"
	"ai-interview/internal/repository"
)

// EnsureDefaults создает запись с пустыми слотами, если ее еще нет,
// и возвращает текущую
func (s *Service) EnsureDefaults(ctx context.Context) (*interview.DefaultConfig, error) {
	cfg, err := s.settings.Defaults(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, interview.ErrNotFound) {
		return nil, err
	}

	cfg = &interview.DefaultConfig{UpdatedAt: s.now()}
	err = s.settings.CreateDefaults(ctx, cfg)
	if errors.Is(err, interview.ErrDuplicateID) {
		// создана параллельно
		return s.settings.Defaults(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("create default configuration: %w", err)
	}
	s.log.Info().Msg("default question set configuration created")
	return cfg, nil
}

// Defaults возвращает наборы по умолчанию, создавая запись при отсутствии
func (s *Service) Defaults(ctx context.Context) (*interview.DefaultConfig, error) {
	return s.EnsureDefaults(ctx)
}

// UpdateDefaults заменяет все три слота. Каждый непустой слот должен
// указывать на существующий набор того же вида
func (s *Service) UpdateDefaults(ctx context.Context, general, developer, designer *string) (*interview.DefaultConfig, error) {
	slots := map[interview.Kind]*string{
		interview.KindGeneral:   general,
		interview.KindDeveloper: developer,
		interview.KindDesigner:  designer,
	}
	for _, kind := range interview.Kinds() {
		if err := s.checkSlot(ctx, kind, slots[kind]); err != nil {
			return nil, err
		}
	}
	return s.modifyDefaults(ctx, func(cfg *interview.DefaultConfig) {
		for _, kind := range interview.Kinds() {
			cfg.SetSlot(kind, slots[kind])
		}
	})
}

// SetDefault меняет один слот, nil очищает его
func (s *Service) SetDefault(ctx context.Context, kind interview.Kind, setID *string) (*interview.DefaultConfig, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown slot %q", interview.ErrValidation, kind)
	}
	if err := s.checkSlot(ctx, kind, setID); err != nil {
		return nil, err
	}
	return s.modifyDefaults(ctx, func(cfg *interview.DefaultConfig) {
		cfg.SetSlot(kind, setID)
	})
}

func (s *Service) checkSlot(ctx context.Context, kind interview.Kind, setID *string) error {
	if setID == nil {
		return nil
	}
	set, err := s.sets.Get(ctx, *setID)
	if errors.Is(err, interview.ErrNotFound) || errors.Is(err, interview.ErrInvalidID) {
		return fmt.Errorf("%w: %w: %s slot names missing set %q",
			interview.ErrConfigurationMismatch, interview.ErrReferentialIntegrity, kind, *setID)
	}
	if err != nil {
		return err
	}
	if set.Kind != kind {
		return fmt.Errorf("%w: %w: %s slot cannot use %s set %q",
			interview.ErrConfigurationMismatch, interview.ErrReferentialIntegrity, kind, set.Kind, set.ID)
	}
	return nil
}

func (s *Service) modifyDefaults(ctx context.Context, apply func(*interview.DefaultConfig)) (*interview.DefaultConfig, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		cfg, err := s.EnsureDefaults(ctx)
		if err != nil {
			return nil, err
		}
		apply(cfg)
		cfg.UpdatedAt = s.now()

		err = s.settings.SaveDefaults(ctx, cfg)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save default configuration: %w", err)
		}
		s.log.Info().
			Interface("general", cfg.GeneralSetID).
			Interface("developer", cfg.DeveloperSetID).
			Interface("designer", cfg.DesignerSetID).
			Msg("default question sets updated")
		return cfg, nil
	}
	return nil, fmt.Errorf("save default configuration: %w", repository.ErrConflict)
}
