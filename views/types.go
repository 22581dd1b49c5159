package views

import "time"

// Site holds site-wide settings handlers pass into every page so nothing is
// hardcoded in templates.
type Site struct {
	Name        string
	URL         string
	Description string
}

// Update is the view model for one published update: raw markdown content
// plus the display projection of its author.
type Update struct {
	ID         string
	Title      string
	Content    string
	ImageURL   string // empty when the update has no featured image
	AuthorName string
	CreatedAt  time.Time
}

// Permalink returns the canonical path for the update.
func (u Update) Permalink() string {
	return "/updates/" + u.ID + "/"
}
