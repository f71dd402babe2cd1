package model

import (
	"time"
)

type MessageRole string

const (
	RoleUser   MessageRole = "user"
	RoleSystem MessageRole = "system"
)

// Message is one entry in a session transcript. System messages carry the
// structured recommendation produced for the preceding user message.
type Message struct {
	Role           MessageRole      `json:"role"`
	Text           string           `json:"text,omitempty"`
	Image          *ImageAttachment `json:"image,omitempty"`
	Recommendation *Recommendation  `json:"recommendation,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Session is the aggregate root for one advisory conversation. Messages are
// append-only; a session is removed whole or not at all.
type Session struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	Messages           []Message       `json:"messages"`
	LastRecommendation *Recommendation `json:"last_recommendation,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Messages:  make([]Message, 0, 4),
	}
}

// SeedTitle sets the display title from the first user message. The title is
// immutable once non-empty.
func (s *Session) SeedTitle(title string) {
	if s.Title != "" || title == "" {
		return
	}
	s.Title = title
}

func (s *Session) AppendUserMessage(text string, image *ImageAttachment) {
	s.Messages = append(s.Messages, Message{
		Role:      RoleUser,
		Text:      text,
		Image:     image,
		CreatedAt: time.Now(),
	})
}

func (s *Session) AppendSystemMessage(rec *Recommendation) {
	s.Messages = append(s.Messages, Message{
		Role:           RoleSystem,
		Text:           rec.ResponseText,
		Recommendation: rec,
		CreatedAt:      time.Now(),
	})
	s.LastRecommendation = rec
}

// History returns a copy of the transcript so far, used as conversational
// context for the next endpoint call.
func (s *Session) History() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}
