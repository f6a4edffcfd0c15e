package handlers_test

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okellodaniel/stackbase/internal/domain/item"
	"github.com/okellodaniel/stackbase/internal/domain/todo"
	"github.com/okellodaniel/stackbase/internal/domain/user"
	"github.com/okellodaniel/stackbase/internal/http/handlers"
	"github.com/okellodaniel/stackbase/internal/http/middlewares"
	"github.com/okellodaniel/stackbase/internal/repo/postgres"
	"github.com/okellodaniel/stackbase/internal/security"
	"github.com/okellodaniel/stackbase/internal/session"
	"github.com/okellodaniel/stackbase/web"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake user repository backing both the auth handler and the session
// middleware.

type fakeUsersRepo struct {
	byEmail map[string]user.User
	byID    map[string]user.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byEmail: make(map[string]user.User),
		byID:    make(map[string]user.User),
	}
}

func (f *fakeUsersRepo) Create(_ context.Context, email, passwordHash string) (user.User, error) {
	if _, exists := f.byEmail[email]; exists {
		return user.User{}, postgres.ErrEmailAlreadyUsed
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	f.byEmail[email] = u
	f.byID[u.ID] = u

	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]

	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]

	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return u, nil
}

type fakeTodosStore struct{}

func (fakeTodosStore) ListByUser(context.Context, string) ([]todo.Todo, error) { return nil, nil }
func (fakeTodosStore) Create(_ context.Context, userID string, req todo.CreateTodoRequest) (todo.Todo, error) {
	return todo.Todo{UserID: userID, Title: req.Title}, nil
}
func (fakeTodosStore) Toggle(context.Context, string, string) error { return nil }
func (fakeTodosStore) Delete(context.Context, string, string) error { return nil }

type fakeItemsLister struct{}

func (fakeItemsLister) ListRecent(context.Context, int) ([]item.Item, error) { return nil, nil }

const testCookieName = "session"

// small helper wiring the auth routes plus a gated dashboard the way
// the real router does

func setupAuthApp(t *testing.T, users *fakeUsersRepo) *gin.Engine {
	t.Helper()

	tokens := session.NewManager("test-secret-key", time.Hour)
	cookies := session.NewCookieWriter(testCookieName, 3600, false)
	sessions := middlewares.NewSessionMiddleware(tokens, users, testCookieName)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))
	r.Use(sessions.CurrentUser())

	authHandler := handlers.NewAuthHandler(users, users, tokens, cookies)
	viewsHandler := handlers.NewViewsHandler(fakeTodosStore{}, fakeItemsLister{})

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/dashboard", sessions.RequirePage(), viewsHandler.Dashboard)

	return r
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName && c.Value != "" {
			return c
		}
	}

	t.Fatal("session cookie not found in response")
	return nil
}

func TestRegisterIssuesSessionAndRedirects(t *testing.T) {
	users := newFakeUsersRepo()
	r := setupAuthApp(t, users)

	w := postForm(r, "/auth/register", url.Values{
		"email":    {"a@b.com"},
		"password": {"password1"},
	})

	if w.Code != http.StatusFound {
		t.Fatalf("register status = %d, want %d (body: %s)", w.Code, http.StatusFound, w.Body.String())
	}

	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("register redirect = %q, want /dashboard", loc)
	}

	c := sessionCookie(t, w)

	if !c.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}

	// the cookie must resolve to a dashboard showing the user's email

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(c)

	dw := httptest.NewRecorder()
	r.ServeHTTP(dw, req)

	if dw.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", dw.Code)
	}

	if !strings.Contains(dw.Body.String(), "a@b.com") {
		t.Error("dashboard does not show the signed-in user's email")
	}
}

func TestRegisterAcceptsAnyNonEmptyPassword(t *testing.T) {
	users := newFakeUsersRepo()
	r := setupAuthApp(t, users)

	w := postForm(r, "/auth/register", url.Values{
		"email":    {"a@b.com"},
		"password": {"x"},
	})

	if w.Code != http.StatusFound {
		t.Fatalf("register status = %d, want %d (body: %s)", w.Code, http.StatusFound, w.Body.String())
	}

	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("register redirect = %q, want /dashboard", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, w))

	dw := httptest.NewRecorder()
	r.ServeHTTP(dw, req)

	if dw.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", dw.Code)
	}

	if !strings.Contains(dw.Body.String(), "a@b.com") {
		t.Error("dashboard does not show the signed-in user's email")
	}

	// empty passwords are still rejected by binding
	ew := postForm(r, "/auth/register", url.Values{
		"email":    {"b@b.com"},
		"password": {""},
	})

	if ew.Code != http.StatusBadRequest {
		t.Errorf("empty-password register status = %d, want 400", ew.Code)
	}
}

func TestRegisterThenLoginResolvesSameUser(t *testing.T) {
	users := newFakeUsersRepo()
	r := setupAuthApp(t, users)

	rw := postForm(r, "/auth/register", url.Values{
		"email":    {"a@b.com"},
		"password": {"password1"},
	})

	if rw.Code != http.StatusFound {
		t.Fatalf("register status = %d", rw.Code)
	}

	lw := postForm(r, "/auth/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"password1"},
	})

	if lw.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302 (body: %s)", lw.Code, lw.Body.String())
	}

	tokens := session.NewManager("test-secret-key", time.Hour)

	regID, err := tokens.Verify(sessionCookie(t, rw).Value)

	if err != nil {
		t.Fatalf("register cookie did not verify: %v", err)
	}

	loginID, err := tokens.Verify(sessionCookie(t, lw).Value)

	if err != nil {
		t.Fatalf("login cookie did not verify: %v", err)
	}

	if regID != loginID {
		t.Errorf("register session user %q != login session user %q", regID, loginID)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	users := newFakeUsersRepo()
	r := setupAuthApp(t, users)

	form := url.Values{
		"email":    {"a@b.com"},
		"password": {"password1"},
	}

	first := postForm(r, "/auth/register", form)

	if first.Code != http.StatusFound {
		t.Fatalf("first register status = %d", first.Code)
	}

	firstCookie := sessionCookie(t, first)

	second := postForm(r, "/auth/register", form)

	if second.Code != http.StatusConflict {
		t.Errorf("second register status = %d, want %d", second.Code, http.StatusConflict)
	}

	// first session still valid after the failed duplicate

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(firstCookie)

	dw := httptest.NewRecorder()
	r.ServeHTTP(dw, req)

	if dw.Code != http.StatusOK {
		t.Errorf("dashboard with first session = %d, want 200", dw.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUsersRepo()

	hash, err := security.HashPassword("password1")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if _, err := users.Create(context.Background(), "a@b.com", hash); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	r := setupAuthApp(t, users)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "a@b.com", password: "nope-nope-nope"},
		{name: "unknown email", email: "nobody@b.com", password: "password1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postForm(r, "/auth/login", url.Values{
				"email":    {tc.email},
				"password": {tc.password},
			})

			if w.Code != http.StatusUnauthorized {
				t.Errorf("login status = %d, want %d", w.Code, http.StatusUnauthorized)
			}

			for _, c := range w.Result().Cookies() {
				if c.Name == testCookieName && c.Value != "" {
					t.Error("rejected login still set a session cookie")
				}
			}
		})
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	users := newFakeUsersRepo()

	hash, err := security.HashPassword("password1")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	u, err := users.Create(context.Background(), "a@b.com", hash)

	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	u.IsActive = false
	users.byEmail[u.Email] = u
	users.byID[u.ID] = u

	r := setupAuthApp(t, users)

	w := postForm(r, "/auth/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"password1"},
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("login status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	r := setupAuthApp(t, newFakeUsersRepo())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("dashboard status = %d, want 302", w.Code)
	}

	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Errorf("dashboard redirect = %q, want /auth/login", loc)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	users := newFakeUsersRepo()
	r := setupAuthApp(t, users)

	reg := postForm(r, "/auth/register", url.Values{
		"email":    {"a@b.com"},
		"password": {"password1"},
	})

	w := postForm(r, "/auth/logout", nil, sessionCookie(t, reg))

	if w.Code != http.StatusFound {
		t.Fatalf("logout status = %d, want 302", w.Code)
	}

	cleared := false

	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}

	if !cleared {
		t.Error("logout did not clear the session cookie")
	}
}
