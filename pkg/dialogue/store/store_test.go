package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sahayata-hq/ceres/pkg/dialogue"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "conversations.db"))
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := dialogue.NewConversation("pm_kisan")
	conv.Stage = dialogue.StageDataCollection
	conv.CurrentField = "annual_income"
	conv.Facts.Set("age", 45.0)
	conv.Facts.AddFamilyMember("wife", 40)
	conv.Attempts["annual_income"] = 1
	conv.Skipped["gender"] = true
	conv.Turns = 3

	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	loaded, err := s.Load(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want conversation")
	}
	if loaded.SchemeID != "pm_kisan" {
		t.Errorf("SchemeID = %q, want %q", loaded.SchemeID, "pm_kisan")
	}
	if loaded.Stage != dialogue.StageDataCollection {
		t.Errorf("Stage = %q, want %q", loaded.Stage, dialogue.StageDataCollection)
	}
	if loaded.CurrentField != "annual_income" {
		t.Errorf("CurrentField = %q, want %q", loaded.CurrentField, "annual_income")
	}
	if v, _ := loaded.Facts.Get("age"); v != 45.0 {
		t.Errorf("age fact = %v, want 45", v)
	}
	members := loaded.Facts.FamilyMembers()
	if len(members) != 1 || members[0].Relation != "wife" || members[0].Age != 40 {
		t.Errorf("FamilyMembers = %+v, want wife aged 40", members)
	}
	if loaded.Attempts["annual_income"] != 1 {
		t.Errorf("Attempts = %v, want annual_income count 1", loaded.Attempts)
	}
	if !loaded.Skipped["gender"] {
		t.Errorf("Skipped = %v, want gender skipped", loaded.Skipped)
	}
	if loaded.Turns != 3 {
		t.Errorf("Turns = %d, want 3", loaded.Turns)
	}
}

func TestSaveUpdatesExistingConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := dialogue.NewConversation("pm_kisan")
	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	conv.Stage = dialogue.StageResultDelivery
	conv.Turns = 7
	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("second Save() error = %v, want nil", err)
	}

	loaded, err := s.Load(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded.Stage != dialogue.StageResultDelivery {
		t.Errorf("Stage = %q, want %q", loaded.Stage, dialogue.StageResultDelivery)
	}
	if loaded.Turns != 7 {
		t.Errorf("Turns = %d, want 7", loaded.Turns)
	}
}

func TestLoadMissingConversation(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.Load(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded != nil {
		t.Errorf("Load() = %+v, want nil for missing conversation", loaded)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := dialogue.NewConversation("pm_kisan")
	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	if err := s.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}

	loaded, err := s.Load(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if loaded != nil {
		t.Error("conversation should be gone after delete")
	}
}

func TestCleanupRemovesStaleConversations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := dialogue.NewConversation("pm_kisan")
	stale.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)
	if err := s.Save(ctx, stale); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	fresh := dialogue.NewConversation("pm_kisan")
	if err := s.Save(ctx, fresh); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	deleted, err := s.Cleanup(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Cleanup() error = %v, want nil", err)
	}
	if deleted != 1 {
		t.Errorf("Cleanup() deleted = %d, want 1", deleted)
	}

	if loaded, _ := s.Load(ctx, stale.ID); loaded != nil {
		t.Error("stale conversation should be removed")
	}
	if loaded, _ := s.Load(ctx, fresh.ID); loaded == nil {
		t.Error("fresh conversation should survive cleanup")
	}
}

func TestSaveValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, nil); err == nil {
		t.Error("Save(nil) error = nil, want error")
	}

	conv := dialogue.NewConversation("pm_kisan")
	conv.ID = ""
	if err := s.Save(ctx, conv); err == nil {
		t.Error("Save with empty id error = nil, want error")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v, want nil", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New(\"\") error = nil, want error")
	}
}
