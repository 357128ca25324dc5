package translator

import (
	"context"
	"errors"
)

var ErrTranslation = errors.New("Failed to translate text")

type Translator interface {
	// Translate a text from a language to another language. Auto lets the
	// backend detect the source language.
	Translate(ctx context.Context, from, to Language, text string) (string, error)
}

type MockTranslator struct{}

func NewMockTranslator() MockTranslator {
	return MockTranslator{}
}

func (t MockTranslator) Translate(_ context.Context, _, _ Language, text string) (string, error) {
	return text, nil
}
