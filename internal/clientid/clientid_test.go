package clientid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFromCookies_Absent(t *testing.T) {
	if got := FromCookies(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFromCookies_Present(t *testing.T) {
	cookies := []*http.Cookie{{Name: CookieName, Value: "abc.123"}}
	if got := FromCookies(cookies); got != "abc.123" {
		t.Errorf("expected 'abc.123', got %q", got)
	}
}

func TestOrNew_ReusesExisting(t *testing.T) {
	cookies := []*http.Cookie{{Name: CookieName, Value: "existing value"}}
	if got := OrNew(cookies); got != "existing value" {
		t.Errorf("expected 'existing value', got %q", got)
	}
}

func TestOrNew_Idempotent(t *testing.T) {
	cookies := []*http.Cookie{{Name: CookieName, Value: "stable-id"}}
	first := OrNew(cookies)
	second := OrNew(cookies)
	if first != second {
		t.Errorf("OrNew not idempotent: %q != %q", first, second)
	}
}

func TestNew_AreDifferent(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := New()
		if id == "" {
			t.Fatalf("iteration %d: New() returned empty string", i)
		}
		if seen[id] {
			t.Fatalf("iteration %d: New() returned duplicate %q", i, id)
		}
		seen[id] = true
	}
}

func TestSetCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "my-id")

	resp := rec.Result()
	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "my-id" {
		t.Errorf("unexpected cookie: %+v", c)
	}
	if c.MaxAge != CookieMaxAge {
		t.Errorf("expected MaxAge %d, got %d", CookieMaxAge, c.MaxAge)
	}
}

func TestHeader_CarriesTheCookie(t *testing.T) {
	h := Header("shake-hands-id")
	values := h["Set-Cookie"]
	if len(values) != 1 {
		t.Fatalf("expected 1 Set-Cookie value, got %d", len(values))
	}
	if !strings.HasPrefix(values[0], CookieName+"=shake-hands-id") {
		t.Errorf("Set-Cookie value %q does not carry the id", values[0])
	}
}
