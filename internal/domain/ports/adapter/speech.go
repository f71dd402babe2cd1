package adapter

import "context"

// SpeechRecognizer is the port for speech-to-text dictation. Each call
// blocks until one utterance is finalized and returns its transcript.
// Runtimes without a recognition engine return
// domain.ErrUnsupportedCapability from both methods; the control is then
// shown disabled, never treated as fatal.
type SpeechRecognizer interface {
	Available() bool
	Listen(ctx context.Context) (transcript string, err error)
}
