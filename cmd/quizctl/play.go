package main

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/quizday/internal/errors"
	"github.com/vytor/quizday/internal/scoring"
	"github.com/vytor/quizday/internal/services"
)

const playHelp = "Commands: a-d or 1-4 answer, n next, p previous, g <n> go to question, s submit, q quit"

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <slug>",
		Short: "Take a quiz in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, args[0])
		},
	}
}

func (a *app) play(cmd *cobra.Command, slug string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	view, err := a.sessions.Start(ctx, slug)
	if errors.IsProfileRequired(err) {
		return fmt.Errorf("set a profile first: quizctl profile set <name> <year>")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s (%d questions)\n%s\n", view.Quiz.Icon, view.Quiz.Title, view.Total(), playHelp)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		printQuestion(out, view)
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			a.sessions.Abandon(ctx, view.ID)
			fmt.Fprintln(out, "\nquiz abandoned")
			return in.Err()
		}

		next, attemptDone, err := a.step(cmd, view, strings.TrimSpace(in.Text()))
		switch {
		case attemptDone:
			return nil
		case next == nil && err == nil:
			a.sessions.Abandon(ctx, view.ID)
			fmt.Fprintln(out, "quiz abandoned")
			return nil
		case err != nil:
			if errors.CodeOf(err) == errors.ErrCodeInternal {
				return err
			}
			fmt.Fprintln(out, friendly(err))
		default:
			view = next
		}
	}
}

// step applies one line of input. A nil view with no error means quit.
func (a *app) step(cmd *cobra.Command, view *services.SessionView, line string) (*services.SessionView, bool, error) {
	ctx := cmd.Context()
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return view, false, nil
	}

	switch c := fields[0]; {
	case c == "q" || c == "quit":
		return nil, false, nil
	case c == "n" || c == "next":
		v, err := a.sessions.Next(ctx, view.ID)
		return orKeep(v, view), false, err
	case c == "p" || c == "prev" || c == "previous":
		v, err := a.sessions.Previous(ctx, view.ID)
		return orKeep(v, view), false, err
	case c == "g" || c == "go":
		if len(fields) < 2 {
			return view, false, errors.NewBadRequestError("usage: g <question number>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return view, false, errors.NewBadRequestError("question number must be a number")
		}
		v, err := a.sessions.JumpTo(ctx, view.ID, n-1)
		return orKeep(v, view), false, err
	case c == "s" || c == "submit":
		attempt, err := a.sessions.Submit(ctx, view.ID)
		if err != nil {
			return view, false, err
		}
		printResult(cmd, a, view, attempt.Score, attempt.TotalQuestions, attempt.Answers)
		return nil, true, nil
	default:
		option, ok := parseOption(c)
		if !ok {
			return view, false, errors.NewBadRequestError(playHelp)
		}
		v, err := a.sessions.Select(ctx, view.ID, option)
		return orKeep(v, view), false, err
	}
}

func orKeep(v, fallback *services.SessionView) *services.SessionView {
	if v == nil {
		return fallback
	}
	return v
}

// parseOption accepts a letter (a, b, ...) or a 1-based number.
func parseOption(s string) (int, bool) {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return int(s[0] - 'a'), true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func friendly(err error) string {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Code == errors.ErrCodeIncomplete {
		return "answer every question before submitting (" + appErr.Message + ")"
	}
	return appErr.Message
}

func printQuestion(out io.Writer, v *services.SessionView) {
	q := v.CurrentQuestion()
	fmt.Fprintf(out, "\nQuestion %d of %d  [%d answered]\n%s\n", v.Current+1, v.Total(), v.Answered, q.Text)
	selected := v.Selected(v.Current)
	for i, opt := range q.Options {
		mark := " "
		if i == selected {
			mark = "*"
		}
		fmt.Fprintf(out, " %s %c) %s\n", mark, 'a'+i, opt)
	}
	if !v.IsAnswered(v.Current) {
		return
	}
	if v.IsCorrect(v.Current) {
		fmt.Fprintln(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Not quite right, the answer is %c) %s\n", 'a'+q.CorrectAnswer, q.Options[q.CorrectAnswer])
	}
	if q.HasExplanation() {
		fmt.Fprintln(out, q.Explanation)
	}
}

func printResult(cmd *cobra.Command, a *app, view *services.SessionView, score, total int, answers []int) {
	out := cmd.OutOrStdout()
	pct := scoring.Percentage(score, total)
	verdict := "Keep practicing!"
	if scoring.Passed(pct, a.progress.PassThreshold()) {
		verdict = "Congratulations, you passed!"
	}
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%). %s\n", score, total, pct, verdict)
	for _, o := range scoring.Breakdown(view.Quiz, answers) {
		switch {
		case o.Correct():
			fmt.Fprintf(out, "  %d. correct\n", o.Index+1)
		default:
			fmt.Fprintf(out, "  %d. wrong, answer: %s\n", o.Index+1, o.Question.Options[o.Question.CorrectAnswer])
		}
	}
}
