package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{RunID: "run-1", TestPath: "shading/glass", ExecMode: "scalar", Image: "beauty.exr", BestCandidate: 7, NumRenders: 25, Warn: 0.014, Fail: 0.016, HardFail: 0.5, Duration: 90 * time.Second},
		{RunID: "run-2", TestPath: "shading/glass", ExecMode: "vector", Image: "beauty.exr", BestCandidate: 3, NumRenders: 25, Warn: 0.01, Fail: 0.012, HardFail: 0.4, Duration: 80 * time.Second},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("entries = %d, want 2", len(recent))
	}
	// Newest first.
	if recent[0].RunID != "run-2" || recent[1].RunID != "run-1" {
		t.Fatalf("unexpected order: %q, %q", recent[0].RunID, recent[1].RunID)
	}
	if recent[1].BestCandidate != 7 {
		t.Fatalf("best candidate = %d, want 7", recent[1].BestCandidate)
	}
	if recent[1].Duration != 90*time.Second {
		t.Fatalf("duration = %v", recent[1].Duration)
	}
	if recent[0].CreatedAt.IsZero() {
		t.Fatal("created_at should be populated")
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Entry{RunID: "run", TestPath: "t", ExecMode: "auto", Image: "b.exr"}); err != nil {
			t.Fatal(err)
		}
	}
	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("entries = %d, want 3", len(recent))
	}
}

func TestCloseNilStore(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("Close on nil store: %v", err)
	}
}
