package memory

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"orbi/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), testLogger())
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateConversation_Idempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	conv := domain.Conversation{ID: "cli:direct", Channel: "cli", Title: "報酬について", Language: "ja"}
	if err := store.CreateConversation(ctx, conv); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// A second create with a different title must be a no-op.
	conv.Title = "別のタイトル"
	if err := store.CreateConversation(ctx, conv); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	got, err := store.GetConversation(ctx, "cli:direct")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected conversation")
	}
	if got.Title != "報酬について" {
		t.Errorf("expected original title kept, got %q", got.Title)
	}
}

func TestGetConversation_Missing(t *testing.T) {
	store := testStore(t)

	got, err := store.GetConversation(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestAddAndGetMessages(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	conv := domain.Conversation{ID: "web:s1", Channel: "web"}
	if err := store.CreateConversation(ctx, conv); err != nil {
		t.Fatal(err)
	}

	msgs := []domain.MessageRecord{
		{Role: "user", Content: "マネーブログのレポート"},
		{Role: "assistant", Content: "📊 ...", Pipeline: "data", LatencyMs: 3},
		{Role: "user", Content: "ありがとう"},
	}
	for _, m := range msgs {
		if err := store.AddMessage(ctx, "web:s1", m); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	got, err := store.GetMessages(ctx, "web:s1", 0)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i := range msgs {
		if got[i].Role != msgs[i].Role || got[i].Content != msgs[i].Content {
			t.Errorf("message %d out of order: %+v", i, got[i])
		}
	}
	if got[1].Pipeline != "data" {
		t.Errorf("expected pipeline recorded, got %q", got[1].Pipeline)
	}
}

func TestGetMessages_Limit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.CreateConversation(ctx, domain.Conversation{ID: "c1", Channel: "cli"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := store.AddMessage(ctx, "c1", domain.MessageRecord{Role: "user", Content: "q"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.GetMessages(ctx, "c1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 messages, got %d", len(got))
	}
}

func TestListConversations(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.CreateConversation(ctx, domain.Conversation{ID: id, Channel: "cli"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListConversations(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 conversations, got %d", len(got))
	}
}

func TestDeleteConversation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.CreateConversation(ctx, domain.Conversation{ID: "gone", Channel: "cli"}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteConversation(ctx, "gone"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := store.GetConversation(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("expected conversation deleted")
	}
}

func TestPrune(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.CreateConversation(ctx, domain.Conversation{ID: "fresh", Channel: "cli"}); err != nil {
		t.Fatal(err)
	}

	// A recent conversation survives any sane retention window.
	n, err := store.Prune(ctx, 30)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing pruned, got %d", n)
	}

	if n, err := store.Prune(ctx, 0); err != nil || n != 0 {
		t.Errorf("retention 0 must be a no-op, got n=%d err=%v", n, err)
	}
}
