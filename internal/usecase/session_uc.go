package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"intillasense/internal/domain"
	"intillasense/internal/domain/model"
	"intillasense/internal/domain/ports/adapter"
	"intillasense/internal/domain/ports/repository"
)

// DefaultSessionTitle is used when the first submission carries no text.
const DefaultSessionTitle = "New Chat"

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

// SubmitInput is one user submission: free text, an image, or both.
type SubmitInput struct {
	Text  string
	Image *model.ImageAttachment
}

// SessionUseCase is the single source of truth for sessions, the active
// selection and the in-flight submission state. Nothing else mutates session
// data or calls the advisory endpoint.
type SessionUseCase interface {
	Restore(ctx context.Context)
	CreateSession() string
	SelectSession(id string)
	DeleteSession(id string)
	Submit(ctx context.Context, in SubmitInput) error

	Sessions() []*model.Session
	ActiveSession() *model.Session
	Displayed() *model.Recommendation
	Busy() bool
	SetFarm(f model.Farm) error
	Farm() model.Farm
}

type sessionUC struct {
	mu        sync.Mutex
	sessions  []*model.Session
	activeID  string
	displayed *model.Recommendation
	farm      model.Farm
	busy      bool

	store   repository.StateStore
	advisor adapter.AdvisorAdapter
	log     *zerolog.Logger
}

func NewSessionUseCase(store repository.StateStore, advisor adapter.AdvisorAdapter, log *zerolog.Logger) *sessionUC {
	return &sessionUC{
		store:   store,
		advisor: advisor,
		farm:    model.FarmIllinois,
		log:     log,
	}
}

// Restore loads the persisted session list once at startup. A read failure
// is a warning, not a fatal condition: the store starts empty and in-memory
// state stays authoritative for the run.
func (u *sessionUC) Restore(ctx context.Context) {
	sessions, err := u.store.LoadSessions(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("restore sessions failed, starting empty")
		return
	}
	u.mu.Lock()
	u.sessions = sessions
	u.mu.Unlock()
}

func (u *sessionUC) CreateSession() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := model.NewSession(ulid.Make().String())
	u.sessions = append(u.sessions, s)
	u.activeID = s.ID
	u.displayed = nil
	u.persistLocked(context.Background())
	return s.ID
}

// SelectSession activates the session with the given id and restores its
// last recommendation as the displayed one. An unknown id is a silent no-op.
func (u *sessionUC) SelectSession(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.findLocked(id)
	if s == nil {
		return
	}
	u.activeID = s.ID
	u.displayed = s.LastRecommendation
}

func (u *sessionUC) DeleteSession(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, s := range u.sessions {
		if s.ID == id {
			u.sessions = append(u.sessions[:i], u.sessions[i+1:]...)
			if u.activeID == id {
				u.activeID = ""
				u.displayed = nil
			}
			u.persistLocked(context.Background())
			return
		}
	}
}

// Submit runs one submission end to end: validate, ensure an active session,
// append the user message optimistically, call the endpoint, then append the
// system message on success. On failure the user message is retained and no
// system message is added.
func (u *sessionUC) Submit(ctx context.Context, in SubmitInput) error {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" && in.Image == nil {
		return domain.ErrNoInput
	}

	u.mu.Lock()
	if u.busy {
		u.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	u.busy = true

	s := u.findLocked(u.activeID)
	if s == nil {
		s = model.NewSession(ulid.Make().String())
		u.sessions = append(u.sessions, s)
		u.activeID = s.ID
		u.displayed = nil
	}
	if in.Text != "" {
		s.SeedTitle(in.Text)
	} else {
		s.SeedTitle(DefaultSessionTitle)
	}

	// Context for the endpoint is the transcript before this submission.
	history := s.History()
	s.AppendUserMessage(in.Text, in.Image)
	u.persistLocked(ctx)
	farm := u.farm
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		u.busy = false
		u.mu.Unlock()
	}()

	rec, err := u.advisor.Recommend(ctx, adapter.RecommendationRequest{
		Farm:    farm,
		Text:    in.Text,
		Image:   in.Image,
		History: history,
	})
	if err != nil {
		u.log.Error().Err(err).Str("session_id", s.ID).Msg("recommendation request failed")
		return fmt.Errorf("submit: %w", err)
	}

	u.mu.Lock()
	s.AppendSystemMessage(rec)
	u.displayed = rec
	u.persistLocked(ctx)
	u.mu.Unlock()
	return nil
}

func (u *sessionUC) Sessions() []*model.Session {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*model.Session, len(u.sessions))
	copy(out, u.sessions)
	return out
}

func (u *sessionUC) ActiveSession() *model.Session {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.findLocked(u.activeID)
}

func (u *sessionUC) Displayed() *model.Recommendation {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.displayed
}

func (u *sessionUC) Busy() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.busy
}

func (u *sessionUC) SetFarm(f model.Farm) error {
	if !f.Valid() {
		return domain.ErrInvalidArgument
	}
	u.mu.Lock()
	u.farm = f
	u.mu.Unlock()
	return nil
}

func (u *sessionUC) Farm() model.Farm {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.farm
}

func (u *sessionUC) findLocked(id string) *model.Session {
	if id == "" {
		return nil
	}
	for _, s := range u.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// persistLocked rewrites the full session list. A write failure (quota, i/o)
// must not fail the calling operation; it is logged and the in-memory state
// remains authoritative.
func (u *sessionUC) persistLocked(ctx context.Context) {
	if err := u.store.SaveSessions(ctx, u.sessions); err != nil {
		u.log.Warn().Err(err).Msg("persist sessions failed")
	}
}
