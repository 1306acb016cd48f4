package config

// SeedFile представляет YAML файл с начальными наборами вопросов
// и наборами по умолчанию
type SeedFile struct {
	QuestionSets []SeedSet    `yaml:"question_sets"`
	Defaults     SeedDefaults `yaml:"defaults"`
}

// SeedSet представляет один набор. Вопросы перечислены в порядке задавания
type SeedSet struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Questions []string `yaml:"questions"`
}

// SeedDefaults задает набор для каждой фазы. Пустое значение не трогает слот
type SeedDefaults struct {
	General   string `yaml:"general"`
	Developer string `yaml:"developer"`
	Designer  string `yaml:"designer"`
}

// Set возвращает набор по id
func (f *SeedFile) Set(id string) (SeedSet, bool) {
	for _, s := range f.QuestionSets {
		if s.ID == id {
			return s, true
		}
	}
	return SeedSet{}, false
}
