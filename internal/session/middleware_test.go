package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, store Store) (*gin.Engine, *Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mgr := NewManager(store, "portfolio_session", 30*time.Minute, false, zap.NewNop())
	r := gin.New()
	r.Use(mgr.Middleware())
	r.GET("/touch", func(c *gin.Context) {
		FromContext(c).SetLoggedIn(true)
		c.Status(http.StatusOK)
	})
	r.GET("/read", func(c *gin.Context) {
		if FromContext(c).LoggedIn() {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusUnauthorized)
	})
	r.GET("/clear", func(c *gin.Context) {
		FromContext(c).Clear()
		c.Status(http.StatusOK)
	})
	return r, mgr
}

func get(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issuedCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "portfolio_session" {
			return c
		}
	}
	return nil
}

func TestMiddlewareSkipsUntouchedSessions(t *testing.T) {
	store := NewMemoryStore()
	r, _ := newTestEngine(t, store)

	w := get(r, "/read", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, issuedCookie(w), "anonymous traffic gets no cookie")
}

func TestMiddlewareIssuesCookieOnWrite(t *testing.T) {
	store := NewMemoryStore()
	r, _ := newTestEngine(t, store)

	w := get(r, "/touch", "")
	cookie := issuedCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// the cookie authorizes later requests
	w = get(r, "/read", cookie.Name+"="+cookie.Value)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareSlidingExpiry(t *testing.T) {
	store := NewMemoryStore()
	r, _ := newTestEngine(t, store)

	w := get(r, "/touch", "")
	cookie := issuedCookie(w)
	require.NotNil(t, cookie)

	first, err := store.Load(context.Background(), cookie.Value)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	get(r, "/read", cookie.Name+"="+cookie.Value)

	second, err := store.Load(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.True(t, second.ExpiresAt.After(first.ExpiresAt), "each access pushes the expiry forward")
}

func TestMiddlewareClearDeletesRecord(t *testing.T) {
	store := NewMemoryStore()
	r, _ := newTestEngine(t, store)

	w := get(r, "/touch", "")
	cookie := issuedCookie(w)
	require.NotNil(t, cookie)

	w = get(r, "/clear", cookie.Name+"="+cookie.Value)
	require.Equal(t, http.StatusOK, w.Code)

	expired := issuedCookie(w)
	require.NotNil(t, expired)
	assert.Empty(t, expired.Value)
	assert.Less(t, expired.MaxAge, 0, "cookie is expired on clear")

	_, err := store.Load(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMiddlewareUnknownCookieGetsFreshSession(t *testing.T) {
	store := NewMemoryStore()
	r, _ := newTestEngine(t, store)

	// a stale or forged cookie value falls back to an anonymous session
	w := get(r, "/read", "portfolio_session=forged-value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
