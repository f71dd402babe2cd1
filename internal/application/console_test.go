package application

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"intillasense/internal/domain/model"
	"intillasense/internal/infra/capture"
	"intillasense/internal/usecase"
)

// fakeSessions implements usecase.SessionUseCase for console tests.
type fakeSessions struct {
	sessions  []*model.Session
	active    *model.Session
	displayed *model.Recommendation
	farm      model.Farm
	busy      bool

	created  int
	selected string
	deleted  string
}

func (f *fakeSessions) Restore(ctx context.Context) {}
func (f *fakeSessions) CreateSession() string {
	f.created++
	return "new-id"
}
func (f *fakeSessions) SelectSession(id string) { f.selected = id }
func (f *fakeSessions) DeleteSession(id string) { f.deleted = id }
func (f *fakeSessions) Submit(ctx context.Context, in usecase.SubmitInput) error {
	return nil
}
func (f *fakeSessions) Sessions() []*model.Session       { return f.sessions }
func (f *fakeSessions) ActiveSession() *model.Session    { return f.active }
func (f *fakeSessions) Displayed() *model.Recommendation { return f.displayed }
func (f *fakeSessions) Busy() bool                       { return f.busy }
func (f *fakeSessions) Farm() model.Farm                 { return f.farm }
func (f *fakeSessions) SetFarm(farm model.Farm) error {
	f.farm = farm
	return nil
}

func newTestConsole(sessions *fakeSessions) *Console {
	logger := zerolog.Nop()
	return NewConsole(
		sessions,
		nil,
		capture.NewComposer(capture.NewUnavailableRecognizer()),
		strings.NewReader(""),
		&strings.Builder{},
		&logger,
	)
}

func TestHandleCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("list with no sessions", func(t *testing.T) {
		c := newTestConsole(&fakeSessions{})
		out, err := c.Handle(ctx, "/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "no sessions yet") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("list marks the active session", func(t *testing.T) {
		a := model.NewSession("a")
		a.SeedTitle("first")
		b := model.NewSession("b")
		b.SeedTitle("second")
		c := newTestConsole(&fakeSessions{sessions: []*model.Session{a, b}, active: b})

		out, err := c.Handle(ctx, "/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "* 2) second") {
			t.Errorf("expected active marker on second entry, got %q", out)
		}
	})

	t.Run("select by index", func(t *testing.T) {
		s := model.NewSession("abc")
		s.SeedTitle("my chat")
		fake := &fakeSessions{sessions: []*model.Session{s}}
		c := newTestConsole(fake)

		if _, err := c.Handle(ctx, "/select 1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fake.selected != "abc" {
			t.Errorf("expected selection by index, got %q", fake.selected)
		}
	})

	t.Run("select out of range", func(t *testing.T) {
		c := newTestConsole(&fakeSessions{})
		if _, err := c.Handle(ctx, "/select 3"); err == nil {
			t.Error("expected an error for out-of-range index")
		}
	})

	t.Run("farm switch", func(t *testing.T) {
		fake := &fakeSessions{farm: model.FarmIllinois}
		c := newTestConsole(fake)
		out, err := c.Handle(ctx, "/farm 2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fake.farm != model.FarmNorthDakota || !strings.Contains(out, "North Dakota") {
			t.Errorf("unexpected result: farm=%v out=%q", fake.farm, out)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		c := newTestConsole(&fakeSessions{})
		if _, err := c.Handle(ctx, "/bogus"); err == nil {
			t.Error("expected an error for unknown command")
		}
	})

	t.Run("speech reported unavailable, not fatal", func(t *testing.T) {
		c := newTestConsole(&fakeSessions{})
		out, err := c.Handle(ctx, "/speech")
		if err != nil {
			t.Fatalf("expected a notice, got error %v", err)
		}
		if !strings.Contains(out, "not available") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestRenderRecommendation(t *testing.T) {
	rec := &model.Recommendation{
		ResponseText: "Conservation tillage fits your field.",
		Primary:      model.Option{Label: "Conservation Tillage", EstimatedCost: 45.5},
		Benefits:     []string{"Reduces soil erosion by 60%"},
		FieldFactors: []model.Factor{{Label: "Rainfall", Value: "Steady"}},
		Alternatives: []model.Option{
			{Label: "No-Till System", EstimatedCost: 35.75},
			{Label: "Strip Tillage", EstimatedCost: 52.25},
		},
		Window: &model.TillageWindow{FallDate: "2026-10-20", SpringDate: "2027-04-12"},
	}

	out := RenderRecommendation(rec)
	for _, want := range []string{
		"Conservation Tillage ($45.50 per acre)",
		"Rainfall: Steady",
		"Alternative 1: No-Till System ($35.75 per acre)",
		"Alternative 2: Strip Tillage ($52.25 per acre)",
		"fall 2026-10-20, spring 2027-04-12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
