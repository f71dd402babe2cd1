// Package capture assembles one pending submission (text plus optional
// image) from typed input, attached files and dictation, and enforces the
// local validation rules that keep bad input away from the network layer.
package capture

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"intillasense/internal/domain"
	"intillasense/internal/domain/model"
	"intillasense/internal/domain/ports/adapter"
)

// MaxImageBytes caps attached images at 5 MiB.
const MaxImageBytes = 5 << 20

var allowedImageExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

var allowedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Composer holds the pending input between submissions. It is owned by the
// UI loop; attachment rejections are local validation errors and never reach
// the session store.
type Composer struct {
	text   string
	image  *model.ImageAttachment
	speech adapter.SpeechRecognizer
}

func NewComposer(speech adapter.SpeechRecognizer) *Composer {
	return &Composer{speech: speech}
}

func (c *Composer) SetText(s string) {
	c.text = s
}

func (c *Composer) Text() string {
	return c.text
}

// AppendTranscript concatenates one finalized dictation utterance onto the
// pending text with a single separating space.
func (c *Composer) AppendTranscript(utterance string) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return
	}
	if c.text == "" {
		c.text = utterance
		return
	}
	c.text = c.text + " " + utterance
}

// SpeechAvailable reports whether the runtime has a dictation engine.
func (c *Composer) SpeechAvailable() bool {
	return c.speech != nil && c.speech.Available()
}

// Dictate captures one utterance and appends its transcript.
func (c *Composer) Dictate(ctx context.Context) error {
	if !c.SpeechAvailable() {
		return domain.ErrUnsupportedCapability
	}
	transcript, err := c.speech.Listen(ctx)
	if err != nil {
		return err
	}
	c.AppendTranscript(transcript)
	return nil
}

// AttachImageFile loads an image from disk, the terminal analog of
// drag-and-drop.
func (c *Composer) AttachImageFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedImageExt[ext] {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedImageType, ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return c.AttachImage(filepath.Base(path), data)
}

// AttachImage validates and stages raw image bytes (paste analog).
func (c *Composer) AttachImage(name string, data []byte) error {
	if len(data) > MaxImageBytes {
		return fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, len(data))
	}
	mime := http.DetectContentType(data)
	if !allowedImageMIME[mime] {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedImageType, mime)
	}
	c.image = &model.ImageAttachment{MIME: mime, Name: name, Data: data}
	return nil
}

func (c *Composer) Image() *model.ImageAttachment {
	return c.image
}

func (c *Composer) ClearImage() {
	c.image = nil
}

// Take returns the pending input and resets the composer for the next
// submission.
func (c *Composer) Take() (string, *model.ImageAttachment) {
	text, image := c.text, c.image
	c.text = ""
	c.image = nil
	return text, image
}
