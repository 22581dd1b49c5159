package teamupdates

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_updates.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedAuthor(t *testing.T, s *Store, id, name string) Author {
	t.Helper()
	a := Author{
		ID:           id,
		Email:        id + "@example.com",
		Name:         name,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateAuthor(context.Background(), a); err != nil {
		t.Fatalf("CreateAuthor failed: %v", err)
	}
	return a
}

func TestInsertAndListUpdates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedAuthor(t, s, "author-1", "Alice")

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		u := Update{
			ID:        title,
			Title:     title,
			Content:   "content " + title,
			AuthorID:  "author-1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.InsertUpdate(ctx, u); err != nil {
			t.Fatalf("InsertUpdate failed: %v", err)
		}
	}

	got, err := s.ListUpdates(ctx)
	if err != nil {
		t.Fatalf("ListUpdates failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListUpdates count = %d, want 3", len(got))
	}
	// Newest first.
	for i, want := range []string{"Third", "Second", "First"} {
		if got[i].Title != want {
			t.Errorf("ListUpdates[%d].Title = %q, want %q", i, got[i].Title, want)
		}
	}
	if got[0].AuthorName != "Alice" {
		t.Errorf("AuthorName = %q, want %q", got[0].AuthorName, "Alice")
	}
	if got[0].ImageURL != nil {
		t.Errorf("ImageURL = %v, want nil", *got[0].ImageURL)
	}
}

func TestListUpdatesTiebreakByID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedAuthor(t, s, "author-1", "Alice")

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, id := range []string{"aaa", "ccc", "bbb"} {
		u := Update{ID: id, Title: id, Content: "c", AuthorID: "author-1", CreatedAt: at}
		if err := s.InsertUpdate(ctx, u); err != nil {
			t.Fatalf("InsertUpdate failed: %v", err)
		}
	}

	got, err := s.ListUpdates(ctx)
	if err != nil {
		t.Fatalf("ListUpdates failed: %v", err)
	}
	// Equal timestamps break by id descending.
	for i, want := range []string{"ccc", "bbb", "aaa"} {
		if got[i].ID != want {
			t.Errorf("ListUpdates[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestInsertUpdateRoundTripsFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedAuthor(t, s, "author-1", "Alice")

	imageURL := "https://img.example.com/cover.jpg"
	at := time.Date(2024, 6, 2, 12, 0, 0, 123456789, time.UTC)
	u := Update{
		ID:        "u-1",
		Title:     "Sprint 1",
		Content:   "Done.",
		ImageURL:  &imageURL,
		AuthorID:  "author-1",
		CreatedAt: at,
	}
	if err := s.InsertUpdate(ctx, u); err != nil {
		t.Fatalf("InsertUpdate failed: %v", err)
	}

	got, err := s.GetUpdate(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetUpdate failed: %v", err)
	}
	if got.Title != "Sprint 1" || got.Content != "Done." {
		t.Errorf("got %q/%q, want Sprint 1/Done.", got.Title, got.Content)
	}
	if got.ImageURL == nil || *got.ImageURL != imageURL {
		t.Errorf("ImageURL = %v, want %q", got.ImageURL, imageURL)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, at)
	}
	if got.AuthorID != "author-1" || got.AuthorName != "Alice" {
		t.Errorf("author = %q/%q, want author-1/Alice", got.AuthorID, got.AuthorName)
	}
}

func TestGetUpdateNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetUpdate(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAuthorDuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedAuthor(t, s, "author-1", "Alice")

	dup := Author{ID: "author-2", Email: "author-1@example.com", Name: "Other", PasswordHash: "x", CreatedAt: time.Now()}
	if err := s.CreateAuthor(ctx, dup); err == nil {
		t.Fatal("expected duplicate email to fail")
	}
}

func TestGetAuthorByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedAuthor(t, s, "author-1", "Alice")

	got, err := s.GetAuthorByEmail(ctx, "author-1@example.com")
	if err != nil {
		t.Fatalf("GetAuthorByEmail failed: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", got.Name)
	}

	_, err = s.GetAuthorByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestImageMetadata(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	img := Image{
		Filename:     "team-photo.jpg",
		OriginalName: "Team Photo.png",
		Width:        800,
		Height:       600,
		Size:         12345,
		UploadedAt:   "2024-01-15T10:00:00Z",
	}
	if err := s.SaveImage(ctx, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	images, err := s.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 1 || images[0].Filename != "team-photo.jpg" || images[0].Width != 800 {
		t.Errorf("ListImages = %+v, want one team-photo.jpg", images)
	}

	if err := s.DeleteImage(ctx, "team-photo.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	images, err = s.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("ListImages after delete = %d, want 0", len(images))
	}
}
