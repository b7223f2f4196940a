package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danh321/AuthLearningProject/internal/auth"
	"github.com/Danh321/AuthLearningProject/internal/auth/credentials"
	"github.com/Danh321/AuthLearningProject/internal/auth/provider"
	"github.com/Danh321/AuthLearningProject/internal/middleware"
	"github.com/Danh321/AuthLearningProject/internal/secrets"
	"github.com/Danh321/AuthLearningProject/internal/session"
)

// directory is an in-memory stand-in for the users table. It backs the
// credential service, the identity resolver and the middleware's user
// lookup so handler tests exercise the real control flow end to end.
type directory struct {
	mu    sync.Mutex
	seq   int
	users map[string]*auth.User
}

func newDirectory() *directory {
	return &directory{users: map[string]*auth.User{}}
}

func (d *directory) add(u auth.User) *auth.User {
	d.seq++
	u.ID = fmt.Sprintf("user-%d", d.seq)
	u.CreatedAt = time.Now()
	d.users[u.ID] = &u
	return &u
}

func (d *directory) Register(_ context.Context, email, password string) (*auth.User, error) {
	hash, err := credentials.HashPassword(password)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.add(auth.User{Email: email, PasswordHash: hash}), nil
}

func (d *directory) Authenticate(_ context.Context, email, password string) (*auth.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			if credentials.VerifyPassword(u.PasswordHash, password) {
				return u, nil
			}
			return nil, credentials.ErrInvalidCredentials
		}
	}
	return nil, credentials.ErrInvalidCredentials
}

func (d *directory) Resolve(_ context.Context, identity *auth.Identity) (*auth.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.GoogleID == identity.ProviderUserID {
			return u, nil
		}
	}
	return d.add(auth.User{Email: identity.Email, GoogleID: identity.ProviderUserID}), nil
}

func (d *directory) GetByID(_ context.Context, id string) (*auth.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

type fakeSecrets struct {
	mu   sync.Mutex
	rows []secrets.Secret
}

func (f *fakeSecrets) ListAll(_ context.Context) ([]secrets.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]secrets.Secret, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeSecrets) Insert(_ context.Context, content, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, secrets.Secret{
		ID:      int64(len(f.rows) + 1),
		Content: content,
		UserID:  userID,
	})
	return nil
}

// fakeProvider returns a fixed identity without talking to Google.
type fakeProvider struct {
	identity *auth.Identity
}

func (f *fakeProvider) Name() string { return "google" }

func (f *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (f *fakeProvider) ExchangeCode(_ context.Context, code, codeVerifier string) (*auth.Identity, error) {
	return f.identity, nil
}

type testApp struct {
	router   *gin.Engine
	dir      *directory
	sessions *session.MemoryStore
	wall     *fakeSecrets
}

func newTestApp(t *testing.T, prov provider.OAuthProvider) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := newDirectory()
	sessions := session.NewMemoryStore()
	wall := &fakeSecrets{}

	registry := provider.NewRegistry()
	if prov != nil {
		registry = provider.NewRegistry(prov)
	}

	h := NewHandler(
		registry,
		sessions,
		dir,
		dir,
		wall,
		time.Hour,
		session.CookieOptions{},
	)

	router := gin.New()
	router.SetHTMLTemplate(Templates())
	router.Use(gin.Recovery())

	authMW := middleware.NewAuthMiddleware(sessions, dir)
	h.RegisterRoutes(router, middleware.GinRequireAuth(authMW))

	return &testApp{router: router, dir: dir, sessions: sessions, wall: wall}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func (a *testApp) register(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := a.do(postForm("/register", url.Values{
		"email":    {email},
		"password": {password},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/secrets", w.Header().Get("Location"))
	c := sessionCookie(t, w)
	require.NotNil(t, c)
	return c
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Secrets")
}

func TestRegisterEstablishesSession(t *testing.T) {
	app := newTestApp(t, nil)

	cookie := app.register(t, "a@example.com", "password1")

	req := httptest.NewRequest(http.MethodGet, "/secrets", nil)
	req.AddCookie(cookie)
	w := app.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestRegisterShortPasswordSucceeds(t *testing.T) {
	// No password policy: a three-character password registers and
	// establishes a session like any other.
	app := newTestApp(t, nil)

	cookie := app.register(t, "a@example.com", "pw1")

	req := httptest.NewRequest(http.MethodGet, "/secrets", nil)
	req.AddCookie(cookie)
	w := app.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestLoginRightAndWrongPassword(t *testing.T) {
	app := newTestApp(t, nil)
	app.register(t, "a@example.com", "password1")

	w := app.do(postForm("/login", url.Values{
		"email":    {"a@example.com"},
		"password": {"password1"},
	}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/secrets", w.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(t, w))

	w = app.do(postForm("/login", url.Values{
		"email":    {"a@example.com"},
		"password": {"wrong"},
	}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=1", w.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, w))
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(postForm("/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"password1"},
	}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=1", w.Header().Get("Location"))
}

func TestLoginAgainstGoogleOnlyAccountFails(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-123",
		Email:          "g@example.com",
	}}
	app := newTestApp(t, prov)

	w := app.googleCallback(t)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/secrets", w.Header().Get("Location"))

	// The account exists but has no password; any local login fails.
	w = app.do(postForm("/login", url.Values{
		"email":    {"g@example.com"},
		"password": {"password1"},
	}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=1", w.Header().Get("Location"))
}

func (a *testApp) googleCallback(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?state=st&code=co", nil)
	req.AddCookie(&http.Cookie{Name: "__oauth_state", Value: "st"})
	req.AddCookie(&http.Cookie{Name: "__oauth_pkce", Value: "verifier"})
	return a.do(req)
}

func TestGoogleLoginRedirectsToConsent(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{ProviderUserID: "sub-1", Email: "g@example.com"}}
	app := newTestApp(t, prov)

	w := app.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "accounts.example.com/consent")
}

func TestGoogleLoginParksFlowCookies(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{ProviderUserID: "sub-1", Email: "g@example.com"}}
	app := newTestApp(t, prov)

	w := app.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	byName := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		byName[c.Name] = c
	}

	for _, name := range []string{"__oauth_state", "__oauth_pkce"} {
		c := byName[name]
		require.NotNil(t, c, name)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.Positive(t, c.MaxAge)
	}

	// the state in the consent URL matches the parked cookie
	assert.Contains(t, w.Header().Get("Location"), "state="+byName["__oauth_state"].Value)
}

func TestGoogleCallbackRepeatLoginsResolveSameUser(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-123",
		Email:          "g@example.com",
	}}
	app := newTestApp(t, prov)

	w1 := app.googleCallback(t)
	require.Equal(t, "/secrets", w1.Header().Get("Location"))
	w2 := app.googleCallback(t)
	require.Equal(t, "/secrets", w2.Header().Get("Location"))

	s1, err := app.sessions.Get(context.Background(), sessionCookie(t, w1).Value)
	require.NoError(t, err)
	s2, err := app.sessions.Get(context.Background(), sessionCookie(t, w2).Value)
	require.NoError(t, err)

	assert.Equal(t, s1.UserID, s2.UserID)
	assert.Len(t, app.dir.users, 1)
}

func TestGoogleCallbackInvalidState(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{ProviderUserID: "sub-1", Email: "g@example.com"}}
	app := newTestApp(t, prov)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?state=st&code=co", nil)
	req.AddCookie(&http.Cookie{Name: "__oauth_state", Value: "different"})
	w := app.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, w))
}

func TestGoogleCallbackProviderError(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{ProviderUserID: "sub-1", Email: "g@example.com"}}
	app := newTestApp(t, prov)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?state=st&error=access_denied", nil)
	req.AddCookie(&http.Cookie{Name: "__oauth_state", Value: "st"})
	w := app.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

// A local registration and a Google sign-in with the same email are two
// independent accounts. There is deliberately no linking step.
func TestLocalAndGoogleSameEmailStayDistinct(t *testing.T) {
	prov := &fakeProvider{identity: &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-123",
		Email:          "dup@example.com",
	}}
	app := newTestApp(t, prov)

	local := app.register(t, "dup@example.com", "password1")

	w := app.googleCallback(t)
	require.Equal(t, "/secrets", w.Header().Get("Location"))
	external := sessionCookie(t, w)
	require.NotNil(t, external)

	sLocal, err := app.sessions.Get(context.Background(), local.Value)
	require.NoError(t, err)
	sExternal, err := app.sessions.Get(context.Background(), external.Value)
	require.NoError(t, err)

	assert.NotEqual(t, sLocal.UserID, sExternal.UserID)
	assert.Len(t, app.dir.users, 2)
}

func TestSecretsRequiresAuth(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(httptest.NewRequest(http.MethodGet, "/secrets", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSubmitSecretAppearsOnSharedWall(t *testing.T) {
	app := newTestApp(t, nil)
	alice := app.register(t, "alice@example.com", "password1")
	bob := app.register(t, "bob@example.com", "password2")

	req := postForm("/submit", url.Values{"secret": {"I never floss"}})
	req.AddCookie(alice)
	w := app.do(req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/secrets", w.Header().Get("Location"))

	require.Len(t, app.wall.rows, 1)
	sess, err := app.sessions.Get(context.Background(), alice.Value)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, app.wall.rows[0].UserID)

	// the wall is shared: bob sees alice's secret
	req = httptest.NewRequest(http.MethodGet, "/secrets", nil)
	req.AddCookie(bob)
	w = app.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "I never floss")
}

func TestSubmitEmptySecretRedirectsBack(t *testing.T) {
	app := newTestApp(t, nil)
	cookie := app.register(t, "a@example.com", "password1")

	req := postForm("/submit", url.Values{"secret": {"   "}})
	req.AddCookie(cookie)
	w := app.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/submit", w.Header().Get("Location"))
	assert.Empty(t, app.wall.rows)
}

func TestLogoutDestroysSession(t *testing.T) {
	app := newTestApp(t, nil)
	cookie := app.register(t, "a@example.com", "password1")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	w := app.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cleared := sessionCookie(t, w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	sess, err := app.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

// Register, login with the right then the wrong password, logout, and
// confirm the wall is gated again.
func TestAuthLifecycleScenario(t *testing.T) {
	app := newTestApp(t, nil)

	app.register(t, "a@example.com", "pw1")

	w := app.do(postForm("/login", url.Values{
		"email":    {"a@example.com"},
		"password": {"pw1"},
	}))
	require.Equal(t, "/secrets", w.Header().Get("Location"))
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)

	w = app.do(postForm("/login", url.Values{
		"email":    {"a@example.com"},
		"password": {"wrong"},
	}))
	require.Equal(t, "/login?error=1", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	w = app.do(req)
	require.Equal(t, "/", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/secrets", nil)
	req.AddCookie(cookie)
	w = app.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
