// Package gameid validates the game-room identifiers clients supply in
// the upgrade URL, before any hub is ever created for them.
package gameid

import (
	"fmt"
	"regexp"
)

const (
	// MinLength and MaxLength bound a valid game ID, inclusive.
	MinLength = 5
	MaxLength = 30
)

var pattern = regexp.MustCompile(`^[A-Za-z0-9./-]+$`)

// Valid reports whether id is an acceptable game ID: 5-30 characters,
// alphanumerics plus '-', '.', '/'.
func Valid(id string) bool {
	return len(id) >= MinLength && len(id) <= MaxLength && pattern.MatchString(id)
}

// Validate is like Valid but returns a descriptive error suitable for an
// HTTP 4xx body.
func Validate(id string) error {
	if len(id) < MinLength || len(id) > MaxLength {
		return fmt.Errorf("game id must be %d-%d characters, got %d", MinLength, MaxLength, len(id))
	}
	if !pattern.MatchString(id) {
		return fmt.Errorf("game id %q contains characters outside [A-Za-z0-9./-]", id)
	}
	return nil
}
