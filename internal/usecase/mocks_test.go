package usecase

import (
	"context"
	"sync"

	"intillasense/internal/domain/model"
	"intillasense/internal/domain/ports/adapter"
	"intillasense/internal/domain/ports/repository"
)

// memStateStore is a small in-memory StateStore used by unit tests.
type memStateStore struct {
	mu       sync.Mutex
	sessions []*model.Session
	prefs    *repository.Prefs
	saveErr  error // used by tests to simulate write failures
	saves    int
}

func newMemStateStore() *memStateStore {
	return &memStateStore{}
}

func (m *memStateStore) SaveSessions(ctx context.Context, sessions []*model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := make([]*model.Session, len(sessions))
	copy(cp, sessions)
	m.sessions = cp
	return nil
}

func (m *memStateStore) LoadSessions(ctx context.Context) ([]*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]*model.Session, len(m.sessions))
	copy(cp, m.sessions)
	return cp, nil
}

func (m *memStateStore) SavePrefs(ctx context.Context, prefs *repository.Prefs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *prefs
	m.prefs = &cp
	return nil
}

func (m *memStateStore) LoadPrefs(ctx context.Context) (*repository.Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		return nil, nil
	}
	cp := *m.prefs
	return &cp, nil
}

func (m *memStateStore) Close() error { return nil }

// fakeAdvisor records each request and returns a fixed recommendation or a
// forced error.
type fakeAdvisor struct {
	mu    sync.Mutex
	calls []adapter.RecommendationRequest
	rec   *model.Recommendation
	err   error
}

func newFakeAdvisor() *fakeAdvisor {
	return &fakeAdvisor{
		rec: &model.Recommendation{
			ResponseText: "Use conservation tillage.",
			Primary:      model.Option{Label: "Conservation Tillage", EstimatedCost: 45.50},
			FieldFactors: []model.Factor{{Label: "Rainfall", Value: "Steady"}},
			Alternatives: []model.Option{
				{Label: "No-Till System", EstimatedCost: 35.75},
				{Label: "Strip Tillage", EstimatedCost: 52.25},
			},
		},
	}
}

func (f *fakeAdvisor) Recommend(ctx context.Context, req adapter.RecommendationRequest) (*model.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.rec
	return &cp, nil
}

func (f *fakeAdvisor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAdvisor) lastCall() adapter.RecommendationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}
