//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serkuksov/NotesAPI/internal/testutil"
)

// ============================================================================
// Note Repository Integration Tests
// ============================================================================

func TestIntegrationNoteRepository_CreateNote(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	ownerID := seedUser(t, ctx, repo, "creator", false)

	note, err := repo.CreateNote(ctx, ownerID, "first note", "hello")
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	retrieved, err := repo.GetNoteByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNoteByID failed: %v", err)
	}

	if retrieved.Title != "first note" {
		t.Errorf("Title mismatch: got %q, want %q", retrieved.Title, "first note")
	}
	if retrieved.OwnerID != ownerID {
		t.Errorf("OwnerID mismatch: got %d, want %d", retrieved.OwnerID, ownerID)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if !retrieved.UpdatedAt.Equal(retrieved.CreatedAt) {
		t.Error("UpdatedAt should equal CreatedAt on create")
	}
}

func TestIntegrationNoteRepository_CreateNote_UnknownOwner(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)

	_, err := repo.CreateNote(ctx, 999999, "orphan", "")
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("Expected ErrOwnerNotFound, got: %v", err)
	}
}

func TestIntegrationNoteRepository_GetNoteByID_NotFound(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)

	_, err := repo.GetNoteByID(ctx, 424242)
	if !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound, got: %v", err)
	}
}

func TestIntegrationNoteRepository_UpdateNoteFields(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	ownerID := seedUser(t, ctx, repo, "updater", false)

	note, err := repo.CreateNote(ctx, ownerID, "before", "original")
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	newTitle := "after"
	updated, err := repo.UpdateNoteFields(ctx, note.ID, &newTitle, nil)
	if err != nil {
		t.Fatalf("UpdateNoteFields failed: %v", err)
	}
	if !updated {
		t.Fatal("expected UpdateNoteFields to report a row change")
	}

	retrieved, err := repo.GetNoteByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNoteByID failed: %v", err)
	}

	if retrieved.Title != "after" {
		t.Errorf("Title = %q, want %q", retrieved.Title, "after")
	}
	if retrieved.Content != "original" {
		t.Errorf("Content changed on title-only update: %q", retrieved.Content)
	}
	if !retrieved.UpdatedAt.After(retrieved.CreatedAt) {
		t.Error("UpdatedAt should advance on update")
	}
	if !retrieved.CreatedAt.Equal(note.CreatedAt) {
		t.Error("CreatedAt should never change")
	}
}

func TestIntegrationNoteRepository_UpdateNoteFields_EmptyContent(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	ownerID := seedUser(t, ctx, repo, "emptier", false)

	note, err := repo.CreateNote(ctx, ownerID, "keep title", "something")
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	empty := ""
	if _, err := repo.UpdateNoteFields(ctx, note.ID, nil, &empty); err != nil {
		t.Fatalf("UpdateNoteFields failed: %v", err)
	}

	retrieved, err := repo.GetNoteByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNoteByID failed: %v", err)
	}
	if retrieved.Content != "" {
		t.Errorf("Content = %q, want empty", retrieved.Content)
	}
	if retrieved.Title != "keep title" {
		t.Errorf("Title changed on content-only update: %q", retrieved.Title)
	}
}

func TestIntegrationNoteRepository_UpdateNoteFields_Missing(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)

	title := "ghost"
	updated, err := repo.UpdateNoteFields(ctx, 909090, &title, nil)
	if err != nil {
		t.Fatalf("UpdateNoteFields failed: %v", err)
	}
	if updated {
		t.Error("expected no row change for missing note")
	}
}

func TestIntegrationNoteRepository_DeleteNote(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	ownerID := seedUser(t, ctx, repo, "deleter", false)

	note, err := repo.CreateNote(ctx, ownerID, "doomed", "")
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	deleted, err := repo.DeleteNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected DeleteNote to report a row change")
	}

	if _, err := repo.GetNoteByID(ctx, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound after delete, got: %v", err)
	}

	deleted, err = repo.DeleteNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("second DeleteNote failed: %v", err)
	}
	if deleted {
		t.Error("second delete should report no row change")
	}
}

func TestIntegrationNoteRepository_ListNotesByOwner(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	aliceID := seedUser(t, ctx, repo, "alice", false)
	bobID := seedUser(t, ctx, repo, "bob", false)

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateNote(ctx, aliceID, "alice note", ""); err != nil {
			t.Fatalf("CreateNote failed: %v", err)
		}
	}
	if _, err := repo.CreateNote(ctx, bobID, "bob note", ""); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	notes, err := repo.ListNotesByOwner(ctx, aliceID, 25, 1)
	if err != nil {
		t.Fatalf("ListNotesByOwner failed: %v", err)
	}

	if len(notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(notes))
	}
	for _, n := range notes {
		if n.OwnerID != aliceID {
			t.Errorf("listing leaked note owned by %d", n.OwnerID)
		}
	}
}

func TestIntegrationNoteRepository_ListNotes_Filters(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	aliceID := seedUser(t, ctx, repo, "alice", false)
	bobID := seedUser(t, ctx, repo, "bob", false)

	base := time.Now().UTC().Add(-time.Hour)
	seed := []struct {
		owner   int64
		title   string
		content string
	}{
		{aliceID, "Groceries", "milk and eggs"},
		{aliceID, "Work plan", "quarterly roadmap"},
		{bobID, "groceries list", "bread"},
		{bobID, "Meeting notes", "discussed roadmap"},
	}
	for i, s := range seed {
		if _, err := testutil.SeedNote(ctx, repo.Pool(), s.owner, s.title, s.content, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("seed note: %v", err)
		}
	}

	t.Run("title filter is case-insensitive substring", func(t *testing.T) {
		notes, err := repo.ListNotes(ctx, NoteFilter{Title: "groceries"}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		if len(notes) != 2 {
			t.Errorf("got %d notes, want 2", len(notes))
		}
	})

	t.Run("owner filter matches user_name", func(t *testing.T) {
		notes, err := repo.ListNotes(ctx, NoteFilter{OwnerName: "alice"}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		if len(notes) != 2 {
			t.Fatalf("got %d notes, want 2", len(notes))
		}
		for _, n := range notes {
			if n.OwnerName != "alice" {
				t.Errorf("owner filter leaked note from %q", n.OwnerName)
			}
		}
	})

	t.Run("search matches title or content", func(t *testing.T) {
		notes, err := repo.ListNotes(ctx, NoteFilter{Search: "roadmap"}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		if len(notes) != 2 {
			t.Errorf("got %d notes, want 2", len(notes))
		}
	})

	t.Run("combined filters are conjunctive", func(t *testing.T) {
		notes, err := repo.ListNotes(ctx, NoteFilter{Title: "groceries", OwnerName: "bob"}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		if len(notes) != 1 {
			t.Fatalf("got %d notes, want 1", len(notes))
		}
		if notes[0].OwnerName != "bob" {
			t.Errorf("wrong note matched: %q", notes[0].Title)
		}
	})

	t.Run("default sort is newest first", func(t *testing.T) {
		notes, err := repo.ListNotes(ctx, NoteFilter{}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		for i := 1; i < len(notes); i++ {
			if notes[i].CreatedAt.After(notes[i-1].CreatedAt) {
				t.Errorf("descending created_at violated at index %d", i)
			}
		}
	})

	t.Run("ascending sort reverses order", func(t *testing.T) {
		asc, err := repo.ListNotes(ctx, NoteFilter{OrderBy: []string{"+created_at"}}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		desc, err := repo.ListNotes(ctx, NoteFilter{OrderBy: []string{"-created_at"}}, 25, 1)
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		if len(asc) != len(desc) {
			t.Fatalf("asc/desc lengths differ: %d vs %d", len(asc), len(desc))
		}
		if asc[0].ID != desc[len(desc)-1].ID {
			t.Error("ascending first should be descending last")
		}
	})

	t.Run("unknown sort field rejected", func(t *testing.T) {
		_, err := repo.ListNotes(ctx, NoteFilter{OrderBy: []string{"sneaky"}}, 25, 1)
		if !errors.Is(err, ErrInvalidSortField) {
			t.Errorf("Expected ErrInvalidSortField, got: %v", err)
		}
	})
}

func TestIntegrationNoteRepository_ListNotes_Pagination(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	ownerID := seedUser(t, ctx, repo, "paginator", false)

	base := time.Now().UTC().Add(-time.Hour)
	total := 12
	for i := 0; i < total; i++ {
		if _, err := testutil.SeedNote(ctx, repo.Pool(), ownerID, "page note", "", base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("seed note: %v", err)
		}
	}

	seen := make(map[int64]bool)
	for page := 1; page <= 3; page++ {
		notes, err := repo.ListNotes(ctx, NoteFilter{}, 5, page)
		if err != nil {
			t.Fatalf("ListNotes page %d failed: %v", page, err)
		}
		for _, n := range notes {
			if seen[n.ID] {
				t.Errorf("note %d appeared on more than one page", n.ID)
			}
			seen[n.ID] = true
		}
	}

	if len(seen) != total {
		t.Errorf("paginated pages covered %d notes, want %d", len(seen), total)
	}

	beyond, err := repo.ListNotes(ctx, NoteFilter{}, 5, 4)
	if err != nil {
		t.Fatalf("ListNotes beyond range failed: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("page past the end returned %d notes, want 0", len(beyond))
	}
}

func TestIntegrationUserRepository_DeleteUserWithNotes(t *testing.T) {
	ctx, repo := newNoteTestEnv(t)
	ownerID := seedUser(t, ctx, repo, "sticky", false)

	if _, err := repo.CreateNote(ctx, ownerID, "anchor", ""); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	_, err := repo.DeleteUser(ctx, ownerID)
	if !errors.Is(err, ErrUserHasNotes) {
		t.Errorf("Expected ErrUserHasNotes, got: %v", err)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func newNoteTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAllSchemas(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schemas: %v", err)
	}

	return ctx, repo
}

func seedUser(t *testing.T, ctx context.Context, repo *Repository, name string, superuser bool) int64 {
	t.Helper()
	id, err := testutil.SeedUser(ctx, repo.Pool(), name, superuser)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}
