package teamupdates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repo mediates reads and writes of updates between the API boundary and the
// store. Writes take an explicit *Session rather than reading ambient auth
// state, so the authorization decision is visible at every call site.
type Repo struct {
	store *Store

	// Overridable in tests for deterministic ids and timestamps.
	now   func() time.Time
	newID func() string
}

// NewRepo creates a Repo backed by the given Store.
func NewRepo(store *Store) *Repo {
	return &Repo{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// ListUpdates returns every update with the author name projected, ordered
// by creation time descending (ties break by id descending).
func (r *Repo) ListUpdates(ctx context.Context) ([]Update, error) {
	return r.store.ListUpdates(ctx)
}

// GetUpdate returns one update by id.
func (r *Repo) GetUpdate(ctx context.Context, id string) (Update, error) {
	return r.store.GetUpdate(ctx, id)
}

// CreateUpdate appends exactly one update with a server-assigned id and
// timestamp. sess must be a valid session (ErrUnauthorized otherwise);
// title and content must be non-empty (*ValidationError otherwise).
func (r *Repo) CreateUpdate(ctx context.Context, sess *Session, in UpdateInput) (Update, error) {
	if sess == nil || sess.AuthorID == "" {
		return Update{}, ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Update{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return Update{}, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	imageURL := in.ImageURL
	if imageURL != nil && strings.TrimSpace(*imageURL) == "" {
		imageURL = nil
	}

	u := Update{
		ID:         r.newID(),
		Title:      title,
		Content:    in.Content,
		ImageURL:   imageURL,
		AuthorID:   sess.AuthorID,
		AuthorName: sess.AuthorName,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.store.InsertUpdate(ctx, u); err != nil {
		return Update{}, err
	}
	return u, nil
}
