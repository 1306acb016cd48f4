// Package provider работает с сервисами генерации текста для отзывов
// и итоговой оценки.
package provider

import (
	"context"
	"errors"
)

// Format - формат ответа, который запрашивается у модели
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Response - ответ модели. Blocked означает отказ по модерации, Text тогда пустой
type Response struct {
	Text          string
	Blocked       bool
	BlockedReason string
}

// Provider генерирует текст по промпту
type Provider interface {
	Generate(ctx context.Context, prompt string, format Format) (*Response, error)
	Name() string
}

// ErrNoChoices - сервис ответил без единого варианта
var ErrNoChoices = errors.New("no choices returned by the AI service")
