package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ai-interview/internal/interview"
)

// Load загружает и проверяет YAML файл с наборами вопросов
func Load(filename string) (*SeedFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse разбирает и проверяет YAML
func Parse(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed YAML: %w", err)
	}
	if err := validateConfig(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &seed, nil
}

func validateConfig(seed *SeedFile) error {
	if len(seed.QuestionSets) == 0 {
		return fmt.Errorf("question_sets must not be empty")
	}

	seen := make(map[string]bool)
	for i, set := range seed.QuestionSets {
		if strings.TrimSpace(set.ID) == "" {
			return fmt.Errorf("question set %d must have an id", i)
		}
		if seen[set.ID] {
			return fmt.Errorf("question set id %q is repeated", set.ID)
		}
		seen[set.ID] = true

		if strings.TrimSpace(set.Name) == "" {
			return fmt.Errorf("question set %q must have a name", set.ID)
		}
		if _, err := interview.ParseKind(set.Kind); err != nil {
			return fmt.Errorf("question set %q: %w", set.ID, err)
		}
		if len(set.Questions) == 0 {
			return fmt.Errorf("question set %q has no questions", set.ID)
		}
		for j, q := range set.Questions {
			if strings.TrimSpace(q) == "" {
				return fmt.Errorf("question %d of set %q is blank", j+1, set.ID)
			}
		}
	}

	for _, slot := range []struct {
		kind interview.Kind
		id   string
	}{
		{interview.KindGeneral, seed.Defaults.General},
		{interview.KindDeveloper, seed.Defaults.Developer},
		{interview.KindDesigner, seed.Defaults.Designer},
	} {
		if slot.id == "" {
			continue
		}
		set, ok := seed.Set(slot.id)
		if !ok {
			return fmt.Errorf("default %s set %q is not defined in question_sets", slot.kind, slot.id)
		}
		if kind, _ := interview.ParseKind(set.Kind); kind != slot.kind {
			return fmt.Errorf("default %s set %q has kind %s", slot.kind, slot.id, set.Kind)
		}
	}
	return nil
}
