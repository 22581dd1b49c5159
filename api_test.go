package teamupdates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// newTestApp wires an App with a temp database and the session middleware,
// but without the full middleware chain (no CSRF) so tests can post forms
// and JSON directly.
func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := &App{
		Config: SiteConfig{
			Name:          "Team Updates",
			URL:           "http://localhost:3000",
			SessionSecret: "test-session-secret",
		},
		Echo:      echo.New(),
		Store:     store,
		staticDir: t.TempDir(),
	}
	a.Repo = NewRepo(store)
	a.signInLimiter = NewSignInLimiter(5, time.Minute)
	a.Echo.HTTPErrorHandler = a.httpErrorHandler
	a.Echo.Use(session.Middleware(a.newSessionStore()))
	a.setupRoutes()
	return a
}

func createTestAuthor(t *testing.T, a *App) Author {
	t.Helper()
	author, err := NewAuthor("alice@example.com", "Alice", "long-enough-password")
	if err != nil {
		t.Fatalf("NewAuthor failed: %v", err)
	}
	if err := a.Store.CreateAuthor(context.Background(), author); err != nil {
		t.Fatalf("CreateAuthor failed: %v", err)
	}
	return author
}

func signIn(t *testing.T, a *App, email, password string) []*http.Cookie {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("sign-in status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	return rec.Result().Cookies()
}

func doJSON(a *App, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

// wireUpdate mirrors the JSON shape of one update on the wire.
type wireUpdate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    struct {
		Name string `json:"name"`
	} `json:"author"`
}

func TestAPIListUpdatesEmpty(t *testing.T) {
	a := newTestApp(t)

	rec := doJSON(a, http.MethodGet, "/api/updates", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestAPICreateUnauthorized(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)

	rec := doJSON(a, http.MethodPost, "/api/updates", `{"title":"Sprint 1","content":"Done."}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Unauthorized" {
		t.Errorf("error = %q, want Unauthorized", body["error"])
	}

	// The rejected write must leave the store unchanged.
	rec = doJSON(a, http.MethodGet, "/api/updates", "", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("store should be unchanged, got %q", got)
	}
}

func TestAPICreateAndList(t *testing.T) {
	a := newTestApp(t)
	author := createTestAuthor(t, a)
	cookies := signIn(t, a, "alice@example.com", "long-enough-password")

	rec := doJSON(a, http.MethodPost, "/api/updates", `{"title":"Sprint 1","content":"Done.","imageUrl":null}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var created wireUpdate
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Error("id should be server-assigned")
	}
	if created.AuthorID != author.ID {
		t.Errorf("authorId = %q, want the signed-in author %q", created.AuthorID, author.ID)
	}

	rec = doJSON(a, http.MethodGet, "/api/updates", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var listed []wireUpdate
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("list length = %d, want 1", len(listed))
	}
	u := listed[0]
	if u.Title != "Sprint 1" || u.Content != "Done." {
		t.Errorf("listed update = %q/%q, want Sprint 1/Done.", u.Title, u.Content)
	}
	if u.ImageURL != nil {
		t.Errorf("imageUrl = %v, want null", *u.ImageURL)
	}
	if u.Author.Name != "Alice" {
		t.Errorf("author.name = %q, want Alice", u.Author.Name)
	}
}

func TestAPICreateValidation(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)
	cookies := signIn(t, a, "alice@example.com", "long-enough-password")

	rec := doJSON(a, http.MethodPost, "/api/updates", `{"content":"no title"}`, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(a, http.MethodPost, "/api/updates", `{not json`, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", rec.Code)
	}

	rec = doJSON(a, http.MethodGet, "/api/updates", "", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("rejected writes must not reach the store, got %q", got)
	}
}

func TestAPIListOrdering(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)
	cookies := signIn(t, a, "alice@example.com", "long-enough-password")

	for _, title := range []string{"first", "second", "third"} {
		rec := doJSON(a, http.MethodPost, "/api/updates", `{"title":"`+title+`","content":"c"}`, cookies)
		if rec.Code != http.StatusOK {
			t.Fatalf("create %q status = %d", title, rec.Code)
		}
	}

	rec := doJSON(a, http.MethodGet, "/api/updates", "", nil)
	var listed []wireUpdate
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("list length = %d, want 3", len(listed))
	}
	for i, want := range []string{"third", "second", "first"} {
		if listed[i].Title != want {
			t.Errorf("list[%d].Title = %q, want %q (newest first)", i, listed[i].Title, want)
		}
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Errorf("createdAt not descending at index %d", i)
		}
	}
}

func TestAPIListUpdatesStoreFailure(t *testing.T) {
	a := newTestApp(t)
	a.Store.Close()

	rec := doJSON(a, http.MethodGet, "/api/updates", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Error fetching updates" {
		t.Errorf("error = %q, want %q", body["error"], "Error fetching updates")
	}
}

func TestAPICreateStoreFailure(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)
	cookies := signIn(t, a, "alice@example.com", "long-enough-password")
	a.Store.Close()

	rec := doJSON(a, http.MethodPost, "/api/updates", `{"title":"Sprint 1","content":"Done."}`, cookies)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Error creating update" {
		t.Errorf("error = %q, want %q", body["error"], "Error creating update")
	}
}

func TestUploadRequiresSession(t *testing.T) {
	a := newTestApp(t)

	rec := doJSON(a, http.MethodPost, "/api/uploads", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)

	form := url.Values{"email": {"alice@example.com"}, "password": {"wrong password"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (re-rendered sign-in form)", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password") {
		t.Error("expected the standard sign-in error message")
	}
}

func TestAdminSaveRequiresSession(t *testing.T) {
	a := newTestApp(t)

	form := url.Values{"title": {"Sprint 1"}, "content": {"Done."}}
	req := httptest.NewRequest(http.MethodPost, "/admin/save/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect to /admin/", rec.Code)
	}
}

func TestAdminSavePreservesFieldsOnFailure(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)
	cookies := signIn(t, a, "alice@example.com", "long-enough-password")

	form := url.Values{"title": {"  "}, "content": {"Keep me around."}}
	req := httptest.NewRequest(http.MethodPost, "/admin/save/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (re-rendered composer)", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Keep me around.") {
		t.Error("entered content must be preserved after a failed submit")
	}
}

func TestHomePageRendersUpdates(t *testing.T) {
	a := newTestApp(t)
	createTestAuthor(t, a)
	cookies := signIn(t, a, "alice@example.com", "long-enough-password")

	body := `{"title":"Sprint 1","content":"Done and **shipped**.\n\n![Image](https://img.example.com/a.png)"}`
	rec := doJSON(a, http.MethodPost, "/api/updates", body, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("home status = %d, want 200", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, "Sprint 1") {
		t.Error("home page should list the update title")
	}
	if !strings.Contains(html, "<strong>shipped</strong>") {
		t.Error("markdown body should be rendered")
	}
	if !strings.Contains(html, `src="https://img.example.com/a.png"`) {
		t.Error("inline image reference should render")
	}
	if !strings.Contains(html, "Alice") {
		t.Error("author name should be projected on the page")
	}
}
