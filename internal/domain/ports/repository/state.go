package repository

import (
	"context"

	"intillasense/internal/domain/model"
)

// Prefs holds the persisted UI preferences: color theme and whether the
// session sidebar is collapsed. Stored as its own durable record, separate
// from the session list.
type Prefs struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
}

// StateStore is the port for the durable local store that survives restarts.
// The full session list lives under one fixed key and is rewritten on every
// mutation; preferences live under another. Loading a record that was never
// written returns empty state, not an error.
type StateStore interface {
	SaveSessions(ctx context.Context, sessions []*model.Session) error
	LoadSessions(ctx context.Context) ([]*model.Session, error)
	SavePrefs(ctx context.Context, prefs *Prefs) error
	LoadPrefs(ctx context.Context) (*Prefs, error)
	Close() error
}
