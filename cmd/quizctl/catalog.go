package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"list", "ls"},
		Short:   "List quizzes by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			all, err := a.progress.GetAllProgress(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, category := range a.quizzes.Categories(ctx) {
				fmt.Fprintf(w, "%s\n", category)
				for _, q := range a.quizzes.QuizzesByCategory(ctx, category) {
					last := "-"
					if p, ok := all[q.ID]; ok && p.HasAttempts() {
						last = fmt.Sprintf("%d%%", a.progress.Summarize(&p).LatestPercentage)
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\t%d questions\tlast %s\n", q.ID, q.Slug, q.Difficulty, q.QuestionCount(), last)
				}
			}
			return w.Flush()
		},
	}
}
