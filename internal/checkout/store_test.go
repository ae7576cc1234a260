package checkout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ekaradag/shopsync/internal/domain"
)

func testItem(id string, queuedAt time.Time) domain.QueueItem {
	return domain.QueueItem{
		ID:       id,
		Payload:  json.RawMessage(`{"id":"` + id + `"}`),
		QueuedAt: queuedAt,
	}
}

func TestStore_EnqueueAndList(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("orders sort oldest first with ID tiebreak", func(t *testing.T) {
		for _, item := range []domain.QueueItem{
			testItem("c", base.Add(2*time.Minute)),
			testItem("b", base),
			testItem("a", base),
		} {
			if err := store.Enqueue(item); err != nil {
				t.Fatalf("enqueue %s: %v", item.ID, err)
			}
		}

		got := store.ListAll()
		want := []string{"a", "b", "c"}
		if len(got) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(got))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
			}
		}
	})

	t.Run("re-enqueue replaces instead of duplicating", func(t *testing.T) {
		updated := testItem("a", base.Add(5*time.Minute))
		updated.Payload = json.RawMessage(`{"id":"a","total":99}`)
		if err := store.Enqueue(updated); err != nil {
			t.Fatalf("re-enqueue: %v", err)
		}
		if store.Len() != 3 {
			t.Fatalf("expected 3 items after re-enqueue, got %d", store.Len())
		}
	})

	t.Run("empty ID rejected", func(t *testing.T) {
		if err := store.Enqueue(domain.QueueItem{}); err == nil {
			t.Fatal("expected error for empty ID")
		}
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Enqueue(testItem("x", base)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := store.Enqueue(testItem("y", base.Add(time.Minute))); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 items after reopen, got %d", reopened.Len())
	}
	items := reopened.ListAll()
	if items[0].ID != "x" || items[1].ID != "y" {
		t.Errorf("unexpected order after reopen: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestStore_FailedCommitRollsBack(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "queue.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	original := testItem("a", base)
	if err := store.Enqueue(original); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// Point the snapshot under a regular file so every commit fails.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	goodPath := store.path
	store.path = filepath.Join(blocker, "queue.json")

	t.Run("failed enqueue leaves the store unchanged", func(t *testing.T) {
		if err := store.Enqueue(testItem("b", base.Add(time.Minute))); err == nil {
			t.Fatal("expected enqueue to fail")
		}
		if store.Len() != 1 {
			t.Fatalf("expected 1 item after failed enqueue, got %d", store.Len())
		}
	})

	t.Run("failed re-enqueue restores the previous item", func(t *testing.T) {
		updated := testItem("a", base.Add(time.Hour))
		updated.Payload = json.RawMessage(`{"id":"a","total":42}`)
		if err := store.Enqueue(updated); err == nil {
			t.Fatal("expected re-enqueue to fail")
		}
		items := store.ListAll()
		if len(items) != 1 || string(items[0].Payload) != string(original.Payload) {
			t.Fatalf("expected original payload back, got %+v", items)
		}
	})

	t.Run("failed delete keeps the item", func(t *testing.T) {
		if err := store.DeleteByID("a"); err == nil {
			t.Fatal("expected delete to fail")
		}
		if store.Len() != 1 {
			t.Fatalf("expected 1 item after failed delete, got %d", store.Len())
		}
	})

	// Once commits succeed again the store picks up where it left off.
	store.path = goodPath
	if err := store.Enqueue(testItem("b", base.Add(time.Minute))); err != nil {
		t.Fatalf("enqueue after recovery: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 items after recovery, got %d", store.Len())
	}
}

func TestStore_DeleteByID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Enqueue(testItem("a", time.Now())); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := store.DeleteByID("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d items", store.Len())
	}

	// Unknown ID is a no-op, not an error.
	if err := store.DeleteByID("missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
