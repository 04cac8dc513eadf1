package checkpoint

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetTestMode(true)
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	cp := core.Checkpoint{
		OperationType: "generate-all",
		LastIndex:     12,
		Completed:     []string{"Alabama", "Alaska"},
	}
	if err := s.Save(cp); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("generate-all")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a checkpoint, got nil")
	}
	if got.LastIndex != 12 || len(got.Completed) != 2 || got.ID == "" {
		t.Errorf("Unexpected checkpoint %+v", got)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Load("update-all")
	if err != nil || got != nil {
		t.Errorf("Expected nil checkpoint without error, got %+v (err %v)", got, err)
	}
}

func TestStaleCheckpointDiscarded(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(core.Checkpoint{
		OperationType: "generate-all",
		LastIndex:     3,
		UpdatedAt:     time.Now().Add(-core.CheckpointStaleAfter - time.Minute),
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("generate-all")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Expected stale checkpoint discarded, got %+v", got)
	}
	// The stale row must be gone for good.
	if got, _ := s.Load("generate-all"); got != nil {
		t.Error("Stale checkpoint was not deleted")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	s.Save(core.Checkpoint{OperationType: "generate-all", LastIndex: 1})

	if err := s.Delete("generate-all"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Load("generate-all"); got != nil {
		t.Errorf("Expected checkpoint removed, got %+v", got)
	}
}

func TestAcquireRejectsConcurrentRun(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.Acquire("generate-all")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if _, err := s.Acquire("generate-all"); !errors.Is(err, ErrRunActive) {
		t.Errorf("Expected ErrRunActive for second run, got %v", err)
	}

	// A different operation type is unaffected.
	if _, err := s.Acquire("update-all"); err != nil {
		t.Errorf("Expected independent lock per operation, got %v", err)
	}

	if err := s.Release("generate-all", runID); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := s.Acquire("generate-all"); err != nil {
		t.Errorf("Expected lock free after release, got %v", err)
	}
}
