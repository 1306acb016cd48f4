package interview

import (
	"errors"
	"fmt"
)

// Классы ошибок, сравнивать через errors.Is
var (
	ErrValidation           = errors.New("validation error")
	ErrInvalidState         = errors.New("invalid state")
	ErrConfiguration        = errors.New("configuration error")
	ErrReferentialIntegrity = errors.New("referential integrity error")
	ErrNotFound             = errors.New("not found")
	ErrCorruptDocument      = errors.New("corrupt document")
)

// Варианты оборачивают свой класс, errors.Is срабатывает для обоих
var (
	ErrOutOfOrder            = fmt.Errorf("%w: answer out of order", ErrValidation)
	ErrInvalidField          = fmt.Errorf("%w: invalid field", ErrValidation)
	ErrInvalidID             = fmt.Errorf("%w: invalid identifier", ErrValidation)
	ErrBlankAnswer           = fmt.Errorf("%w: blank answer", ErrValidation)
	ErrDuplicateID           = fmt.Errorf("%w: identifier already in use", ErrValidation)
	ErrConfigurationMissing  = fmt.Errorf("%w: question set not configured", ErrConfiguration)
	ErrConfigurationMismatch = fmt.Errorf("%w: question set kind mismatch", ErrConfiguration)
	ErrEmptySet              = fmt.Errorf("%w: question set is empty", ErrConfiguration)
)
