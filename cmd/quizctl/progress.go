package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/vytor/quizday/internal/models"
	"github.com/vytor/quizday/internal/scoring"
)

func newProgressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress [quiz-id]",
		Short: "Show attempt history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				if _, err := a.quizzes.GetQuizByID(ctx, args[0]); err != nil {
					return fmt.Errorf("unknown quiz id %q", args[0])
				}
				p, err := a.progress.GetProgress(ctx, args[0])
				if err != nil {
					return err
				}
				if p == nil {
					fmt.Fprintf(out, "%s: no attempts\n", args[0])
					return nil
				}
				printProgress(cmd, a, *p, true)
				return nil
			}

			all, err := a.progress.GetAllProgress(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "no attempts recorded")
				return nil
			}
			ids := make([]string, 0, len(all))
			for id := range all {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				printProgress(cmd, a, all[id], false)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <quiz-id>",
		Short: "Delete the attempt history of one quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.quizzes.GetQuizByID(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("unknown quiz id %q", args[0])
			}
			if err := a.progress.Retake(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: history cleared\n", args[0])
			return nil
		},
	})
	return cmd
}

func printProgress(cmd *cobra.Command, a *app, p models.Progress, detailed bool) {
	out := cmd.OutOrStdout()
	sum := a.progress.Summarize(&p)
	status := "not passed"
	if sum.Passed {
		status = "passed"
	}
	fmt.Fprintf(out, "%s: %d attempts, latest %d%% (%s), best %d%%\n",
		p.QuizID, sum.AttemptCount, sum.LatestPercentage, status, sum.BestPercentage)
	if !detailed {
		return
	}
	if p.Profile != nil {
		fmt.Fprintf(out, "  completed by %s, Class of %s\n", p.Profile.Name, p.Profile.Year)
	}
	for i, at := range p.Attempts {
		fmt.Fprintf(out, "  #%d  %s  %d/%d  %d%%\n", i+1,
			at.CompletedAt.Local().Format("2006-01-02 15:04"), at.Score, at.TotalQuestions,
			scoring.Percentage(at.Score, at.TotalQuestions))
	}
}
