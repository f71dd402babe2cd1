package state

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"intillasense/internal/domain/model"
	"intillasense/internal/domain/ports/repository"
	"intillasense/internal/infra/security"
)

func newTestStore(t *testing.T) *SQLiteStateStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadBeforeAnyWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sessions, err := store.LoadSessions(ctx)
	if err != nil {
		t.Fatalf("expected empty state, got error %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}

	prefs, err := store.LoadPrefs(ctx)
	if err != nil {
		t.Fatalf("expected no error for missing prefs, got %v", err)
	}
	if prefs != nil {
		t.Errorf("expected nil prefs, got %+v", prefs)
	}
}

func TestSessionRoundTripWithImage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	img := &model.ImageAttachment{
		MIME: "image/png",
		Name: "field.png",
		Data: []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3},
	}
	s := model.NewSession("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	s.SeedTitle("My field has clay soil")
	s.AppendUserMessage("My field has clay soil", img)
	s.AppendSystemMessage(&model.Recommendation{
		ResponseText: "Conservation tillage fits.",
		Primary:      model.Option{Label: "Conservation Tillage", EstimatedCost: 45.50},
		FieldFactors: []model.Factor{{Label: "Rainfall", Value: "Steady"}},
		Alternatives: []model.Option{
			{Label: "No-Till System", EstimatedCost: 35.75},
			{Label: "Strip Tillage", EstimatedCost: 52.25},
		},
		Window: &model.TillageWindow{FallDate: "2026-10-20", SpringDate: "2027-04-12"},
	})

	if err := store.SaveSessions(ctx, []*model.Session{s}); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.LoadSessions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 session, got %d", len(loaded))
	}

	got := loaded[0]
	if got.ID != s.ID || got.Title != s.Title {
		t.Errorf("session header mismatch: %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}

	gotImg := got.Messages[0].Image
	if gotImg == nil {
		t.Fatal("expected image to survive the round trip")
	}
	if !bytes.Equal(gotImg.Data, img.Data) {
		t.Error("expected image bytes to decode back to the in-memory form")
	}
	if gotImg.MIME != img.MIME || gotImg.Name != img.Name {
		t.Errorf("image metadata mismatch: %+v", gotImg)
	}
	// encode -> decode -> encode is idempotent
	if gotImg.Base64() != img.Base64() {
		t.Error("expected re-encoding the loaded image to match the original encoding")
	}

	rec := got.Messages[1].Recommendation
	if rec == nil || rec.Primary.EstimatedCost != 45.50 || len(rec.Alternatives) != 2 {
		t.Errorf("recommendation did not survive the round trip: %+v", rec)
	}
	if got.LastRecommendation == nil || got.LastRecommendation.Window == nil {
		t.Errorf("last recommendation did not survive: %+v", got.LastRecommendation)
	}
}

func TestSaveOverwritesPriorRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := model.NewSession("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	b := model.NewSession("01BX5ZZKBKACTAV9WEVGEMMVRZ")
	if err := store.SaveSessions(ctx, []*model.Session{a, b}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveSessions(ctx, []*model.Session{b}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.LoadSessions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != b.ID {
		t.Errorf("expected the record to be rewritten whole, got %+v", loaded)
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	cipher, err := security.NewCipher("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	store, err := NewSQLite(path, cipher)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s := model.NewSession("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	s.SeedTitle("Spring plans for the north quarter")
	s.AppendUserMessage("Spring plans for the north quarter", nil)
	if err := store.SaveSessions(ctx, []*model.Session{s}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadSessions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != s.Title {
		t.Fatalf("expected sealed record to read back, got %+v", loaded)
	}

	// The stored value must not be the plaintext JSON document.
	var raw []byte
	err = store.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, sessionsKey).Scan(&raw)
	if err != nil {
		t.Fatalf("read raw value: %v", err)
	}
	if bytes.Contains(raw, []byte("north quarter")) {
		t.Error("expected the on-disk record to be sealed, found plaintext")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := &repository.Prefs{Theme: "dark", SidebarCollapsed: true}
	if err := store.SavePrefs(ctx, in); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	got, err := store.LoadPrefs(ctx)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if got == nil || got.Theme != "dark" || !got.SidebarCollapsed {
		t.Errorf("prefs mismatch: %+v", got)
	}
}
