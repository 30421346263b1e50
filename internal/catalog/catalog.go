// Package catalog holds the quizzes compiled into the application.
package catalog

import (
	"fmt"
	"sort"

	"github.com/vytor/quizday/internal/models"
)

// Catalog is an immutable, ordered list of quizzes. Every accessor hands out
// deep copies. Lookups are linear scans; the catalog is small and never indexed.
type Catalog struct {
	quizzes []models.Quiz
}

// New builds a catalog over the given quizzes, preserving their order.
func New(quizzes []models.Quiz) *Catalog {
	return &Catalog{quizzes: cloneAll(quizzes)}
}

var defaultCatalog = New(builtinQuizzes)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// All returns every quiz in catalog order.
func (c *Catalog) All() []models.Quiz {
	return cloneAll(c.quizzes)
}

func cloneAll(quizzes []models.Quiz) []models.Quiz {
	out := make([]models.Quiz, len(quizzes))
	for i, q := range quizzes {
		out[i] = q.Clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.quizzes)
}

// GetQuizBySlug returns the quiz with the given slug. The boolean is false
// when no such quiz exists.
func (c *Catalog) GetQuizBySlug(slug string) (*models.Quiz, bool) {
	for i := range c.quizzes {
		if c.quizzes[i].Slug == slug {
			q := c.quizzes[i].Clone()
			return &q, true
		}
	}
	return nil, false
}

func (c *Catalog) GetQuizByID(id string) (*models.Quiz, bool) {
	for i := range c.quizzes {
		if c.quizzes[i].ID == id {
			q := c.quizzes[i].Clone()
			return &q, true
		}
	}
	return nil, false
}

// GetQuizzesByCategory returns the quizzes of one category in catalog order.
func (c *Catalog) GetQuizzesByCategory(category string) []models.Quiz {
	var out []models.Quiz
	for _, q := range c.quizzes {
		if q.Category == category {
			out = append(out, q.Clone())
		}
	}
	return out
}

// GetAllCategories returns the distinct category names, sorted.
func (c *Catalog) GetAllCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range c.quizzes {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	sort.Strings(out)
	return out
}

// TotalQuestions counts questions across the whole catalog.
func (c *Catalog) TotalQuestions() int {
	total := 0
	for _, q := range c.quizzes {
		total += q.QuestionCount()
	}
	return total
}

// Validate checks the structural rules every quiz must satisfy.
func (c *Catalog) Validate() error {
	slugs := make(map[string]bool)
	ids := make(map[string]bool)
	for _, q := range c.quizzes {
		if q.ID == "" || q.Slug == "" {
			return fmt.Errorf("quiz %q: id and slug are required", q.Title)
		}
		if ids[q.ID] {
			return fmt.Errorf("quiz %s: duplicate id", q.ID)
		}
		if slugs[q.Slug] {
			return fmt.Errorf("quiz %s: duplicate slug %q", q.ID, q.Slug)
		}
		ids[q.ID] = true
		slugs[q.Slug] = true

		if !q.Difficulty.Valid() {
			return fmt.Errorf("quiz %s: invalid difficulty %q", q.ID, q.Difficulty)
		}
		if len(q.Questions) == 0 {
			return fmt.Errorf("quiz %s: no questions", q.ID)
		}
		for _, question := range q.Questions {
			if len(question.Options) == 0 {
				return fmt.Errorf("quiz %s question %s: no options", q.ID, question.ID)
			}
			if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
				return fmt.Errorf("quiz %s question %s: correct answer %d out of range [0,%d)",
					q.ID, question.ID, question.CorrectAnswer, len(question.Options))
			}
		}
	}
	return nil
}
