// Package clientid mints and recognises the opaque clientID cookie that
// identifies a browser session across reconnects.
package clientid

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// CookieName is the name of the cookie carrying a client's identity.
const CookieName = "clientID"

// CookieMaxAge is 100 years in seconds, long enough that the cookie is
// effectively permanent for this system's purposes.
const CookieMaxAge = 60 * 60 * 24 * 365 * 100

// FromCookies returns the value of the clientID cookie, or "" if it's
// not present.
func FromCookies(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}

// New generates a fresh client ID. Format: <unix-seconds>.<random-31-bit-int>.
func New() string {
	return fmt.Sprintf("%d.%d", time.Now().Unix(), rand.Int31())
}

// OrNew returns the clientID cookie's value, or a newly minted ID if
// there isn't one.
func OrNew(cookies []*http.Cookie) string {
	if id := FromCookies(cookies); id != "" {
		return id
	}
	return New()
}

// SetCookie writes the Set-Cookie header that persists id in the browser,
// whether id was just minted or reused from an existing cookie.
func SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:   CookieName,
		Value:  id,
		Path:   "/",
		MaxAge: CookieMaxAge,
	})
}

// Header builds a Set-Cookie header suitable for passing as the
// responseHeader argument to a websocket upgrade, whose handshake
// response is written directly from the hijacked connection rather
// than through an http.ResponseWriter.
func Header(id string) http.Header {
	h := make(http.Header)
	h.Add("Set-Cookie", (&http.Cookie{
		Name:   CookieName,
		Value:  id,
		Path:   "/",
		MaxAge: CookieMaxAge,
	}).String())
	return h
}
