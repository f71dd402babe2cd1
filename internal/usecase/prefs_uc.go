package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"intillasense/internal/domain/ports/repository"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PrefsUseCase owns the persisted UI preferences (theme, sidebar collapse).
// They live in their own durable record, loaded once at startup and written
// back on every change; write failures are warnings only.
type PrefsUseCase struct {
	mu    sync.Mutex
	prefs repository.Prefs

	store repository.StateStore
	log   *zerolog.Logger
}

func NewPrefsUseCase(store repository.StateStore, log *zerolog.Logger) *PrefsUseCase {
	return &PrefsUseCase{
		prefs: repository.Prefs{Theme: ThemeLight},
		store: store,
		log:   log,
	}
}

func (p *PrefsUseCase) Restore(ctx context.Context) {
	prefs, err := p.store.LoadPrefs(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("restore prefs failed, using defaults")
		return
	}
	if prefs == nil {
		return
	}
	p.mu.Lock()
	p.prefs = *prefs
	if p.prefs.Theme == "" {
		p.prefs.Theme = ThemeLight
	}
	p.mu.Unlock()
}

func (p *PrefsUseCase) Theme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs.Theme
}

func (p *PrefsUseCase) ToggleTheme(ctx context.Context) string {
	p.mu.Lock()
	if p.prefs.Theme == ThemeDark {
		p.prefs.Theme = ThemeLight
	} else {
		p.prefs.Theme = ThemeDark
	}
	theme := p.prefs.Theme
	p.persistLocked(ctx)
	p.mu.Unlock()
	return theme
}

func (p *PrefsUseCase) SidebarCollapsed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs.SidebarCollapsed
}

func (p *PrefsUseCase) ToggleSidebar(ctx context.Context) bool {
	p.mu.Lock()
	p.prefs.SidebarCollapsed = !p.prefs.SidebarCollapsed
	collapsed := p.prefs.SidebarCollapsed
	p.persistLocked(ctx)
	p.mu.Unlock()
	return collapsed
}

func (p *PrefsUseCase) persistLocked(ctx context.Context) {
	prefs := p.prefs
	if err := p.store.SavePrefs(ctx, &prefs); err != nil {
		p.log.Warn().Err(err).Msg("persist prefs failed")
	}
}
