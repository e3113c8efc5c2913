package session

import (
	"encoding/json"

	"portfolio-api/internal/models"
)

// Fixed session schema. All reads and writes go through the typed
// accessors below; the key set does not grow ad hoc.
const (
	keyLoggedIn = "logged_in"
	keyRole     = "role"
	keyUserID   = "user_id"
	keyEmail    = "email"
	keyUsername = "username"
	keyFullname = "fullname"
	keyAvatar   = "avatar"
	keyActive   = "active"
)

// Session is the per-request view over a stored record. The auth handler
// is the only writer; guards read it only.
type Session struct {
	rec      *Record
	existing bool
	dirty    bool
	cleared  bool
}

func newSession(rec *Record, existing bool) *Session {
	if rec.Data == nil {
		rec.Data = make(map[string]interface{})
	}
	return &Session{rec: rec, existing: existing}
}

// ID returns the opaque session identifier carried by the cookie.
func (s *Session) ID() string { return s.rec.ID }

func (s *Session) set(key string, v interface{}) {
	s.rec.Data[key] = v
	s.dirty = true
	s.cleared = false
}

// LoggedIn reports whether this session belongs to an authenticated user.
func (s *Session) LoggedIn() bool {
	v, ok := s.rec.Data[keyLoggedIn]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (s *Session) SetLoggedIn(v bool) { s.set(keyLoggedIn, v) }

// Role returns the cached role and whether the key is present at all.
// Absence means the session predates the login write or was partially
// evicted, which guards treat as "relogin".
func (s *Session) Role() (int16, bool) {
	v, ok := s.rec.Data[keyRole]
	if !ok {
		return 0, false
	}
	return toInt16(v)
}

func (s *Session) SetRole(role int16) { s.set(keyRole, role) }

// UserID returns the cached user id, empty when anonymous.
func (s *Session) UserID() string {
	v, ok := s.rec.Data[keyUserID]
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// SetUser caches the identity and non-secret profile fields of a user.
// The password hash is never written here.
func (s *Session) SetUser(u *models.User) {
	s.set(keyLoggedIn, true)
	s.set(keyRole, u.Role)
	s.set(keyUserID, u.ID.String())
	s.set(keyEmail, u.Email)
	s.set(keyUsername, u.Username)
	s.set(keyFullname, u.Fullname)
	s.set(keyAvatar, u.Avatar)
	s.set(keyActive, u.Active)
}

// Clear drops all session state. The middleware deletes the stored record
// afterwards; clearing an anonymous session is a no-op on the store.
func (s *Session) Clear() {
	s.rec.Data = make(map[string]interface{})
	s.dirty = false
	s.cleared = true
}

// toInt16 tolerates the numeric types a JSON round trip can produce.
func toInt16(v interface{}) (int16, bool) {
	switch n := v.(type) {
	case int16:
		return n, true
	case int:
		return int16(n), true
	case int64:
		return int16(n), true
	case float64:
		return int16(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int16(i), true
	default:
		return 0, false
	}
}
