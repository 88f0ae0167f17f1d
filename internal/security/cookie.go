package security

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	AccessTokenCookie = "access_token"
	CSRFTokenCookie   = "csrf_token"
)

type CookieManager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, SameSite: http.SameSiteLaxMode}
}

func (m *CookieManager) SetAccessToken(w http.ResponseWriter, token string, ttl time.Duration) {
	m.set(w, AccessTokenCookie, token, int(ttl.Seconds()), true)
}

// SetCSRFToken writes the double-submit token. It is readable by scripts so
// the client can echo it in the X-CSRF-Token header.
func (m *CookieManager) SetCSRFToken(w http.ResponseWriter, token string, ttl time.Duration) {
	m.set(w, CSRFTokenCookie, token, int(ttl.Seconds()), false)
}

func (m *CookieManager) ClearAccessToken(w http.ResponseWriter) {
	m.set(w, AccessTokenCookie, "", -1, true)
	m.set(w, CSRFTokenCookie, "", -1, false)
}

func (m *CookieManager) set(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.Domain,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   m.Secure,
		SameSite: m.SameSite,
	})
}

func NewCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
