package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Profile is the single locally stored user identity.
type Profile struct {
	Name      string    `json:"name"`
	Year      string    `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{Name: p.Name, Year: p.Year}
}

// Initials returns up to two upper-cased leading letters of the name's words.
func (p Profile) Initials() string {
	var sb strings.Builder
	for _, word := range strings.Fields(p.Name) {
		r, _ := utf8.DecodeRuneInString(word)
		sb.WriteString(strings.ToUpper(string(r)))
		if utf8.RuneCountInString(sb.String()) == 2 {
			break
		}
	}
	return sb.String()
}
