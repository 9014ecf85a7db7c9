package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/studyhub/backend/internal/practice"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EEBFF")).Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#67F0A8")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6F91")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A869A"))
)

type runner struct {
	session *practice.Session
	bank    practice.QuestionBank
	refresh time.Duration

	mu       sync.Mutex
	out      io.Writer
	resolved bool
}

func newRunner(out io.Writer, session *practice.Session, bank practice.QuestionBank, refresh time.Duration) *runner {
	return &runner{out: out, session: session, bank: bank, refresh: refresh}
}

// run shows the current question and processes input lines until quit,
// end of input or ctx is cancelled.
func (r *runner) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var tick <-chan time.Time
	if r.refresh > 0 {
		t := time.NewTicker(r.refresh)
		defer t.Stop()
		tick = t.C
	}

	r.showQuestion()
	for {
		select {
		case <-ctx.Done():
			r.summary()
			return nil
		case line, ok := <-lines:
			if !ok || r.handle(strings.TrimSpace(line)) {
				r.summary()
				return nil
			}
		case <-tick:
			r.countdown()
		}
	}
}

// handle applies one input line and reports whether the learner quit.
func (r *runner) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd := strings.ToLower(fields[0]); {
	case cmd == "q" || cmd == "quit":
		return true
	case cmd == "n" || cmd == "next":
		if _, err := r.session.Advance(); err != nil {
			r.report(err)
			return false
		}
		r.showQuestion()
	case cmd == "reset" && len(fields) > 1 && strings.ToLower(fields[1]) == "all":
		r.session.Reset(practice.ResetAll)
		r.printf("%s\n", mutedStyle.Render("Score, streak and progress cleared."))
		r.showQuestion()
	case cmd == "r" || cmd == "reset":
		r.session.Reset(practice.ResetCursor)
		r.showQuestion()
	case cmd == "c" || cmd == "category":
		if len(fields) < 2 {
			r.printf("Usage: c <category>  (%s)\n", r.categoryKeys())
			return false
		}
		if _, err := r.session.SwitchCategory(fields[1]); err != nil {
			r.report(err)
			return false
		}
		r.showQuestion()
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			r.printf("Unknown command %q. Answer with an option number, or n, r, c <category>, q.\n", line)
			return false
		}
		r.answer(n)
	}
	return false
}

func (r *runner) answer(n int) {
	_, q, err := r.session.Current()
	if err != nil {
		r.report(err)
		return
	}
	if n < 1 || n > len(q.Options) {
		r.printf("Pick an option between 1 and %d.\n", len(q.Options))
		return
	}

	out, st, err := r.session.Submit(q.Options[n-1])
	if err != nil {
		r.report(err)
		return
	}

	r.mu.Lock()
	r.resolved = true
	r.mu.Unlock()

	if out.Correct {
		r.printf("%s +%d points\n", passStyle.Render("Correct!"), out.ScoreDelta)
	} else {
		r.printf("%s The answer is %s.\n", failStyle.Render("Incorrect."), out.CorrectAnswer)
	}
	if out.Explanation != "" {
		r.printf("%s\n", mutedStyle.Render(out.Explanation))
	}
	r.printf("Score %d · Streak %d · Press n for the next question.\n", st.Score, st.Streak)
}

// countdown prints the remaining time at a few milestones and announces a
// timeout once.
func (r *runner) countdown() {
	st, q, err := r.session.Current()
	if err != nil {
		return
	}

	r.mu.Lock()
	announced := r.resolved
	if st.IsAnswered {
		r.resolved = true
	}
	r.mu.Unlock()

	switch {
	case st.IsAnswered && !announced:
		r.printf("%s The answer is %s. Press n for the next question.\n", failStyle.Render("Time's up!"), q.CorrectAnswer)
	case st.TimerActive && (st.TimeRemaining%15 == 0 || st.TimeRemaining <= 5):
		r.printf("%s\n", mutedStyle.Render(fmt.Sprintf("%ds left", st.TimeRemaining)))
	}
}

func (r *runner) showQuestion() {
	st, q, err := r.session.Current()
	if err != nil {
		r.report(err)
		return
	}
	questions, _ := r.bank.QuestionsFor(st.Category)

	r.mu.Lock()
	r.resolved = st.IsAnswered
	r.mu.Unlock()

	pct := practice.CompletionPercent(st.CompletedIn(st.Category), questions)
	r.printf("\n%s  %s\n", titleStyle.Render(fmt.Sprintf("%s · question %d of %d", st.Category, st.CurrentIndex+1, len(questions))),
		mutedStyle.Render(fmt.Sprintf("[%s · %ds · %d%% done]", q.Difficulty, st.TimeRemaining, pct)))
	r.printf("%s\n", q.Prompt)
	for i, opt := range q.Options {
		r.printf("  %d) %s\n", i+1, opt)
	}
}

func (r *runner) summary() {
	st := r.session.State()
	r.printf("\nFinal score %d · streak %d · focus next on %s\n", st.Score, st.Streak, practice.FocusArea(r.bank, st.Category))
}

func (r *runner) report(err error) {
	switch {
	case errors.Is(err, practice.ErrInvalidTransition):
		st := r.session.State()
		if st.IsAnswered {
			r.printf("Already answered. Press n for the next question.\n")
		} else {
			r.printf("Answer the current question first.\n")
		}
	case errors.Is(err, practice.ErrUnknownCategory):
		r.printf("Unknown category. Choose one of: %s\n", r.categoryKeys())
	default:
		r.printf("Error: %v\n", err)
	}
}

func (r *runner) categoryKeys() string {
	var keys []string
	for _, c := range r.bank.Categories() {
		keys = append(keys, c.Key)
	}
	return strings.Join(keys, ", ")
}

func (r *runner) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}
