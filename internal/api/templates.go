package api

import (
	"encoding/json"
	"html/template"
	"io/fs"
	"time"

	"github.com/vytor/quizday/internal/models"
)

// LoadTemplates parses the layouts, pages and partials found in fsys.
func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// seq returns the integers 0..n-1.
		"seq": func(n int) []int {
			nums := make([]int, 0, max(n, 0))
			for i := 0; i < n; i++ {
				nums = append(nums, i)
			}
			return nums
		},
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
		"unanswered": func() int { return models.Unanswered },
		"date": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006 15:04")
		},
		// json marshals a value to JSON string
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		"templates/layouts/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
