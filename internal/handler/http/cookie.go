package http

import (
	"net/http"
	"time"
)

// cookieWriter issues and clears the refresh token cookie with consistent
// attributes so the browser reliably replaces or drops it.
type cookieWriter struct {
	name     string
	maxAge   time.Duration
	secure   bool
	sameSite http.SameSite
}

func newCookieWriter(name string, maxAge time.Duration, production bool) *cookieWriter {
	return &cookieWriter{
		name:     name,
		maxAge:   maxAge,
		secure:   production,
		sameSite: http.SameSiteLaxMode,
	}
}

// set writes the refresh token cookie. httpOnly is a parameter because
// sign-up sets it and sign-in/refresh deliberately do not: the web client
// reads the rotated token after those flows.
func (c *cookieWriter) set(w http.ResponseWriter, token string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

// clear expires the refresh token cookie using the same attributes it was
// set with, minus the max-age.
func (c *cookieWriter) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

// read returns the refresh token cookie value, or "" when absent.
func (c *cookieWriter) read(r *http.Request) string {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
