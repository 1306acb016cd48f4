package interview

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxCareerGoalLength = 250

// CandidateInfo представляет анкету кандидата до начала интервью.
// Обязательны только FullName и Email
type CandidateInfo struct {
	FullName            string   `json:"full_name" yaml:"full_name"`
	Email               string   `json:"email" yaml:"email"`
	DateOfBirth         string   `json:"date_of_birth,omitempty" yaml:"date_of_birth"`
	Gender              string   `json:"gender,omitempty" yaml:"gender"`
	PhoneNumber         string   `json:"phone_number,omitempty" yaml:"phone_number"`
	EducationLevel      string   `json:"education_level,omitempty" yaml:"education_level"`
	MajorSpecialization string   `json:"major_specialization,omitempty" yaml:"major_specialization"`
	SchoolUniversity    string   `json:"school_university,omitempty" yaml:"school_university"`
	HasWorkExperience   bool     `json:"has_work_experience,omitempty" yaml:"has_work_experience"`
	YearsOfExperience   *float64 `json:"years_of_experience,omitempty" yaml:"years_of_experience"`
	ExperienceField     string   `json:"experience_field,omitempty" yaml:"experience_field"`
	InterestedField     string   `json:"interested_field,omitempty" yaml:"interested_field"`
	CareerGoalShort     string   `json:"career_goal_short,omitempty" yaml:"career_goal_short"`
	KeySkills           string   `json:"key_skills,omitempty" yaml:"key_skills"`
	CVLink              string   `json:"cv_link,omitempty" yaml:"cv_link"`
	LinkedInProfile     string   `json:"linkedin_profile,omitempty" yaml:"linkedin_profile"`
	PortfolioGithub     string   `json:"portfolio_github,omitempty" yaml:"portfolio_github"`
}

// Normalize обрезает пробелы во всех текстовых полях
func (c *CandidateInfo) Normalize() {
	for _, field := range []*string{
		&c.FullName, &c.Email, &c.DateOfBirth, &c.Gender, &c.PhoneNumber,
		&c.EducationLevel, &c.MajorSpecialization, &c.SchoolUniversity,
		&c.ExperienceField, &c.InterestedField, &c.CareerGoalShort, &c.KeySkills,
		&c.CVLink, &c.LinkedInProfile, &c.PortfolioGithub,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// Validate проверяет обязательные поля и простые форматы
func (c *CandidateInfo) Validate() error {
	if c.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailPattern.MatchString(c.Email) {
		return fmt.Errorf("%w: email %q is not valid", ErrValidation, c.Email)
	}
	if len([]rune(c.CareerGoalShort)) > maxCareerGoalLength {
		return fmt.Errorf("%w: career goal exceeds %d characters", ErrValidation, maxCareerGoalLength)
	}
	if c.YearsOfExperience != nil && *c.YearsOfExperience < 0 {
		return fmt.Errorf("%w: years of experience cannot be negative", ErrValidation)
	}
	return nil
}
