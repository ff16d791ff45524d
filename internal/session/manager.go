package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "session"

	identityKey  = "identity"
	sessionIDKey = "session_id"
)

// Manager ties the session cookie to server-side session data. The cookie
// only carries a signed session id; identity and flashes live in the Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Attach resolves the request's session and stores the identity in the gin
// context. Invalid or expired cookies resolve to an anonymous identity.
func (m *Manager) Attach(c *gin.Context) error {
	c.Set(identityKey, Anonymous())

	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}

	sid, err := m.parseCookie(raw)
	if err != nil {
		return nil
	}

	data, err := m.store.Get(c.Request.Context(), sid)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	c.Set(sessionIDKey, sid)
	c.Set(identityKey, data.Identity)
	return nil
}

// IdentityFrom returns the identity resolved by Attach.
func IdentityFrom(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Anonymous()
}

// Login resets the session and binds it to the given identity.
func (m *Manager) Login(c *gin.Context, identity Identity) error {
	if err := m.drop(c); err != nil {
		return err
	}

	sid, err := m.start(c, &Data{Identity: identity})
	if err != nil {
		return err
	}

	c.Set(sessionIDKey, sid)
	c.Set(identityKey, identity)
	return nil
}

// Clear drops all session state and expires the cookie.
func (m *Manager) Clear(c *gin.Context) error {
	if err := m.drop(c); err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	return nil
}

// AddFlash queues a one-time message for the next rendered view, creating
// an anonymous session when none exists.
func (m *Manager) AddFlash(c *gin.Context, category, message string) error {
	flash := Flash{Category: category, Message: message}

	sid := c.GetString(sessionIDKey)
	if sid != "" {
		data, err := m.store.Get(c.Request.Context(), sid)
		if err != nil {
			return err
		}
		if data != nil {
			data.Flashes = append(data.Flashes, flash)
			return m.store.Set(c.Request.Context(), sid, data, m.ttl)
		}
	}

	sid, err := m.start(c, &Data{Identity: IdentityFrom(c), Flashes: []Flash{flash}})
	if err != nil {
		return err
	}
	c.Set(sessionIDKey, sid)
	return nil
}

// PopFlashes returns and removes the queued flash messages.
func (m *Manager) PopFlashes(c *gin.Context) ([]Flash, error) {
	sid := c.GetString(sessionIDKey)
	if sid == "" {
		return nil, nil
	}

	data, err := m.store.Get(c.Request.Context(), sid)
	if err != nil || data == nil || len(data.Flashes) == 0 {
		return nil, err
	}

	flashes := data.Flashes
	data.Flashes = nil
	if err := m.store.Set(c.Request.Context(), sid, data, m.ttl); err != nil {
		return nil, err
	}
	return flashes, nil
}

func (m *Manager) drop(c *gin.Context) error {
	if sid := c.GetString(sessionIDKey); sid != "" {
		if err := m.store.Delete(c.Request.Context(), sid); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	c.Set(sessionIDKey, "")
	c.Set(identityKey, Anonymous())
	return nil
}

func (m *Manager) start(c *gin.Context, data *Data) (string, error) {
	sid := uuid.NewString()
	if err := m.store.Set(c.Request.Context(), sid, data, m.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	cookie, err := m.signCookie(sid)
	if err != nil {
		return "", err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, cookie, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return sid, nil
}

func (m *Manager) signCookie(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parseCookie(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.ID, nil
}
