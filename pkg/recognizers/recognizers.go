// Package recognizers holds the entity recognizers: a client for a hosted
// Presidio analyzer, a local pattern recognizer and a composite of both.
package recognizers

import (
	"fmt"

	"github.com/securex/securex/config"
	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
)

var log = internal.GetLogger()

// New builds the recognizer selected by cfg.Type.
func New(cfg *config.RecognizerConfig) (models.EntityRecognizer, error) {
	switch cfg.Type {
	case "presidio":
		return NewPresidioClient(cfg)
	case "pattern":
		return NewPatternRecognizer(), nil
	case "composite":
		presidio, err := NewPresidioClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewComposite(presidio, NewPatternRecognizer()), nil
	default:
		return nil, fmt.Errorf("unknown recognizer type: %q", cfg.Type)
	}
}
