package models

import (
	"fmt"
	"slices"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty parses a case-insensitive difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// HasExplanation reports whether the question carries explanation text.
func (q Question) HasExplanation() bool {
	return q.Explanation != ""
}

type Quiz struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	Questions        []Question `json:"questions"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	BannerImage      string     `json:"banner_image"`
	AccentColor      string     `json:"accent_color"`
	Icon             string     `json:"icon"`
	Tags             []string   `json:"tags,omitempty"`
}

// Clone returns a deep copy of q that shares no slices with it.
func (q Quiz) Clone() Quiz {
	out := q
	out.Tags = slices.Clone(q.Tags)
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			question.Options = slices.Clone(question.Options)
			out.Questions[i] = question
		}
	}
	return out
}

func (q Quiz) QuestionCount() int {
	return len(q.Questions)
}
