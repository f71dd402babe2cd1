package capture

import (
	"context"

	"intillasense/internal/domain"
	"intillasense/internal/domain/ports/adapter"
)

var _ adapter.SpeechRecognizer = (*UnavailableRecognizer)(nil)

// UnavailableRecognizer is the speech port for runtimes without a dictation
// engine. The console runs with this; the control stays visible but
// disabled.
type UnavailableRecognizer struct{}

func NewUnavailableRecognizer() *UnavailableRecognizer {
	return &UnavailableRecognizer{}
}

func (r *UnavailableRecognizer) Available() bool {
	return false
}

func (r *UnavailableRecognizer) Listen(ctx context.Context) (string, error) {
	return "", domain.ErrUnsupportedCapability
}
