package teamupdates

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is a fixed-width RFC 3339 layout. Stored UTC timestamps keep
// nanosecond padding so lexicographic order in SQLite matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps a SQLite database holding updates, authors, and upload
// metadata. It is the sole arbiter of write ordering: each insert is one
// independently atomic statement.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of returning SQLITE_BUSY immediately. synchronous=NORMAL is
	// safe with WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS authors (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS updates (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    image_url TEXT,
    author_id TEXT NOT NULL REFERENCES authors(id),
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_updates_listing ON updates (created_at DESC, id DESC);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// InsertUpdate appends one row. The caller assigns ID and CreatedAt; rows
// are never updated or deleted afterwards.
func (s *Store) InsertUpdate(ctx context.Context, u Update) error {
	var imageURL sql.NullString
	if u.ImageURL != nil {
		imageURL = sql.NullString{String: *u.ImageURL, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO updates (id, title, content, image_url, author_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Title, u.Content, imageURL, u.AuthorID, u.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return storeErr("insert update", err)
	}
	return nil
}

// ListUpdates returns every update with the author name joined, newest
// first. Ties on created_at break by id descending so the order is stable
// within a query.
func (s *Store) ListUpdates(ctx context.Context) ([]Update, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT u.id, u.title, u.content, u.image_url, u.author_id, u.created_at, a.name
FROM updates u JOIN authors a ON a.id = u.author_id
ORDER BY u.created_at DESC, u.id DESC`)
	if err != nil {
		return nil, storeErr("list updates", err)
	}
	defer rows.Close()

	var updates []Update
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, storeErr("scan update", err)
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list updates", err)
	}
	return updates, nil
}

// GetUpdate returns a single update by id with the author name joined.
func (s *Store) GetUpdate(ctx context.Context, id string) (Update, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT u.id, u.title, u.content, u.image_url, u.author_id, u.created_at, a.name
FROM updates u JOIN authors a ON a.id = u.author_id
WHERE u.id = ?`, id)
	u, err := scanUpdate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Update{}, ErrNotFound
		}
		return Update{}, storeErr("get update", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpdate(row rowScanner) (Update, error) {
	var u Update
	var imageURL sql.NullString
	var createdAt string
	if err := row.Scan(&u.ID, &u.Title, &u.Content, &imageURL, &u.AuthorID, &createdAt, &u.AuthorName); err != nil {
		return Update{}, err
	}
	if imageURL.Valid {
		u.ImageURL = &imageURL.String
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Update{}, err
	}
	u.CreatedAt = t
	return u, nil
}

// CreateAuthor inserts one author row. Email uniqueness is enforced by the
// schema.
func (s *Store) CreateAuthor(ctx context.Context, a Author) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return storeErr("create author", err)
	}
	return nil
}

// GetAuthorByEmail looks up an author for sign-in. Returns ErrNotFound when
// no author has that email.
func (s *Store) GetAuthorByEmail(ctx context.Context, email string) (Author, error) {
	var a Author
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM authors WHERE email = ?`, email).
		Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, storeErr("get author", err)
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Author{}, storeErr("get author", err)
	}
	a.CreatedAt = t
	return a, nil
}

// ListAuthors returns all authors ordered by creation time.
func (s *Store) ListAuthors(ctx context.Context) ([]Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, name, created_at FROM authors ORDER BY created_at ASC`)
	if err != nil {
		return nil, storeErr("list authors", err)
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var a Author
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &createdAt); err != nil {
			return nil, storeErr("scan author", err)
		}
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			a.CreatedAt = t
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list authors", err)
	}
	return authors, nil
}

// SaveImage persists metadata for an uploaded image.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	if err != nil {
		return storeErr("save image", err)
	}
	return nil
}

// ListImages returns upload metadata, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, storeErr("list images", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, storeErr("scan image", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list images", err)
	}
	return images, nil
}

// DeleteImage removes upload metadata by filename.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	if err != nil {
		return storeErr("delete image", err)
	}
	return nil
}
