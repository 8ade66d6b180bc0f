package domain

import (
	"regexp"
	"strings"

	apperrors "github.com/karilaa-dev/steam-gifts/pkg/errors"
)

// SteamID is a 64-bit Steam account identifier in its canonical 17-digit
// decimal string form.
type SteamID string

var steamIDPattern = regexp.MustCompile(`^\d{17}$`)

// Valid reports whether the ID is a well-formed 17-digit Steam ID.
func (id SteamID) Valid() bool {
	return steamIDPattern.MatchString(string(id))
}

func (id SteamID) String() string {
	return string(id)
}

// ParseSteamID validates a raw Steam ID string. Invalid IDs are rejected
// before any upstream call is made.
func ParseSteamID(raw string) (SteamID, error) {
	id := SteamID(strings.TrimSpace(raw))
	if !id.Valid() {
		return "", apperrors.InvalidInput("steam id must be a 17-digit number")
	}
	return id, nil
}

var profileURLPattern = regexp.MustCompile(`steamcommunity\.com/profiles/(\d{17})`)

// ExtractSteamID pulls a Steam ID out of user input, which may be either a
// bare 17-digit ID or a steamcommunity.com profile URL.
func ExtractSteamID(input string) (SteamID, error) {
	input = strings.TrimSpace(input)

	if m := profileURLPattern.FindStringSubmatch(input); m != nil {
		return SteamID(m[1]), nil
	}

	return ParseSteamID(input)
}
