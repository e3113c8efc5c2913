package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contextKey = "session"

// Manager loads and persists the per-request session around the handler
// chain and maintains the cookie.
type Manager struct {
	store      Store
	cookieName string
	idleTTL    time.Duration
	secure     bool
	logger     *zap.Logger
}

func NewManager(store Store, cookieName string, idleTTL time.Duration, secure bool, logger *zap.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Manager{
		store:      store,
		cookieName: cookieName,
		idleTTL:    idleTTL,
		secure:     secure,
		logger:     logger,
	}
}

// Middleware attaches a session to every request. An existing session's
// expiry is refreshed on each access (sliding window); a fresh session is
// only persisted once a handler writes to it, so anonymous traffic does
// not fill the store.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		c.Set(contextKey, sess)

		c.Next()

		m.persist(c, sess)
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	if id, err := c.Cookie(m.cookieName); err == nil && id != "" {
		rec, err := m.store.Load(c.Request.Context(), id)
		if err == nil {
			return newSession(rec, true)
		}
		if err != ErrNotFound {
			m.logger.Warn("session load failed", zap.Error(err))
		}
	}
	return newSession(&Record{ID: uuid.NewString()}, false)
}

func (m *Manager) persist(c *gin.Context, sess *Session) {
	ctx := c.Request.Context()

	if sess.cleared {
		if sess.existing {
			if err := m.store.Delete(ctx, sess.rec.ID); err != nil {
				m.logger.Warn("session delete failed", zap.Error(err))
			}
		}
		m.setCookie(c, "", -1)
		return
	}

	// nothing to keep for an untouched anonymous session
	if !sess.existing && !sess.dirty {
		return
	}

	sess.rec.ExpiresAt = time.Now().Add(m.idleTTL)
	if err := m.store.Save(ctx, sess.rec); err != nil {
		m.logger.Error("session save failed", zap.Error(err))
		return
	}
	m.setCookie(c, sess.rec.ID, int(m.idleTTL.Seconds()))
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromContext returns the request session placed by the middleware.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
