package teamupdates

import "time"

// Update is the core content type: one published post on the updates feed.
// Updates are append-only: once created they are never edited or deleted.
type Update struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"imageUrl"`
	AuthorID   string    `json:"authorId"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorName string    `json:"-"`
}

// Author is an admin who can sign in and publish updates. Only Name is ever
// shown publicly; the rest backs credential sign-in.
type Author struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Session proves a prior sign-in. It carries the minimum the write path
// needs: a stable author identifier and a display name.
type Session struct {
	AuthorID   string
	AuthorName string
}

// UpdateInput is the create payload, validated at the API boundary before it
// reaches the store.
type UpdateInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// Image holds metadata for an uploaded image stored under public/uploads.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
