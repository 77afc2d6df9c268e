// Package session implements a minimal signed-cookie store. It carries
// exactly one value, the event-voter invite nonce, so a browser that
// registered at the door stays recognized across requests.
package session

import (
	"net/http"
	"strings"
	"time"

	"pitchcontest/auth"
)

const cookieName = "contest_session"

type Store struct {
	secret string
	secure bool
}

func NewStore(secret string, secure bool) *Store {
	return &Store{secret: secret, secure: secure}
}

// SetNonce writes the signed invite nonce cookie on the response.
func (s *Store) SetNonce(w http.ResponseWriter, nonce string) {
	value := nonce + "." + auth.Sign(nonce, s.secret)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Nonce returns the invite nonce from the request cookie, or "" when
// the cookie is absent or its signature does not verify.
func (s *Store) Nonce(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	nonce, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !auth.Verify(nonce, sig, s.secret) {
		return ""
	}
	return nonce
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
	})
}
