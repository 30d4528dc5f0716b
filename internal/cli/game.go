package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"trivia-tracker/internal/quiz"
)

const maxAttempts = 3

// ErrAborted is returned when input ends before the quiz is finished. Nothing
// is recorded in that case.
var ErrAborted = errors.New("quiz aborted before completion")

// Game drives one interactive play-through on a line-oriented terminal.
type Game struct {
	source     quiz.QuestionSource
	history    quiz.HistoryRepository
	log        *zap.Logger
	in         *bufio.Reader
	out        io.Writer
	retries    int
	newBackOff func() backoff.BackOff
	now        func() time.Time
}

type GameOption func(*Game)

// WithRetries sets how many extra fetch attempts are made for retryable
// failures.
func WithRetries(retries int) GameOption {
	return func(g *Game) { g.retries = retries }
}

func WithBackOff(newBackOff func() backoff.BackOff) GameOption {
	return func(g *Game) { g.newBackOff = newBackOff }
}

func WithGameClock(now func() time.Time) GameOption {
	return func(g *Game) { g.now = now }
}

func NewGame(source quiz.QuestionSource, history quiz.HistoryRepository, in io.Reader, out io.Writer, log *zap.Logger, opts ...GameOption) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		source:  source,
		history: history,
		log:     log,
		in:      bufio.NewReader(in),
		out:     out,
		retries: 2,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Play fetches a question set, asks every question, prints the results and
// appends the summary to history. The returned summary is valid whenever the
// quiz was completed, even if recording it failed.
func (g *Game) Play(ctx context.Context, req quiz.FetchRequest, labels quiz.Labels) (quiz.Summary, error) {
	session := quiz.NewSession(quiz.WithClock(g.now))

	fmt.Fprintf(g.out, "Fetching %d questions (%s, %s)...\n", req.Amount, labels.Category, labels.Difficulty)
	if err := g.start(ctx, session, req, labels); err != nil {
		return quiz.Summary{}, err
	}

	for {
		question, ok := session.CurrentQuestion()
		if !ok {
			break
		}
		current, total := session.Progress()
		printQuestion(g.out, current, total, question)

		choice, err := g.readChoice(len(question.Answers))
		if err != nil {
			return quiz.Summary{}, err
		}

		submitted := ""
		if choice >= 0 {
			submitted = question.Answers[choice]
		}
		correct, err := session.CheckAnswer(submitted)
		if err != nil {
			return quiz.Summary{}, err
		}

		fmt.Fprintln(g.out)
		switch {
		case choice < 0:
			fmt.Fprintf(g.out, "Skipping. Correct answer was %s\n", question.CorrectAnswer)
		case correct:
			fmt.Fprintln(g.out, "Correct!")
		default:
			fmt.Fprintf(g.out, "Wrong. Correct answer was %s\n", question.CorrectAnswer)
		}

		if _, err := session.Next(); err != nil {
			return quiz.Summary{}, err
		}
	}

	summary := session.Summary()
	printSummary(g.out, summary)
	g.record(ctx, summary)
	return summary, nil
}

func (g *Game) start(ctx context.Context, session *quiz.Session, req quiz.FetchRequest, labels quiz.Labels) error {
	operation := func() error {
		err := session.Start(ctx, g.source, req, labels)
		if err == nil {
			return nil
		}
		var fetchErr *quiz.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Retryable() {
			return err
		}
		return backoff.Permanent(err)
	}

	var policy backoff.BackOff = g.newBackOff()
	if g.retries >= 0 {
		policy = backoff.WithMaxRetries(policy, uint64(g.retries))
	}
	policy = backoff.WithContext(policy, ctx)

	notify := func(err error, wait time.Duration) {
		g.log.Warn("fetch questions failed, retrying", zap.Error(err), zap.Duration("wait", wait))
		fmt.Fprintf(g.out, "Could not load questions (%v). Retrying in %s...\n", err, wait.Round(time.Millisecond))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		g.log.Error("fetch questions", zap.Error(err), zap.Int("amount", req.Amount))
		return err
	}
	return nil
}

// readChoice returns the zero-based answer index, or -1 once the player has
// entered maxAttempts invalid lines.
func (g *Game) readChoice(optionCount int) (int, error) {
	maxLetter := byte('A' + optionCount - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprintf(g.out, "Your answer (A-%c): ", maxLetter)
		line, err := g.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				return -1, ErrAborted
			}
			return -1, fmt.Errorf("read answer: %w", err)
		}

		if idx, ok := parseChoice(line, optionCount); ok {
			return idx, nil
		}
		if attempt < maxAttempts {
			fmt.Fprintf(g.out, "\nInvalid input. Please enter a letter A-%c.\n", maxLetter)
		}
	}
	return -1, nil
}

// parseChoice accepts a letter (a/A) or a 1-based number.
func parseChoice(line string, optionCount int) (int, bool) {
	value := strings.ToUpper(strings.TrimSpace(line))
	if len(value) != 1 {
		return -1, false
	}
	switch c := value[0]; {
	case c >= 'A' && int(c-'A') < optionCount:
		return int(c - 'A'), true
	case c >= '1' && int(c-'1') < optionCount:
		return int(c - '1'), true
	}
	return -1, false
}

// record appends the summary, retrying once. If both attempts fail the
// summary is printed so the result is not lost.
func (g *Game) record(ctx context.Context, summary quiz.Summary) {
	err := g.history.Append(ctx, summary)
	if err == nil {
		return
	}
	g.log.Warn("append history failed, retrying", zap.Error(err))

	if err = g.history.Append(ctx, summary); err == nil {
		return
	}
	g.log.Error("append history", zap.Error(err))

	fmt.Fprintf(g.out, "\nWarning: this result was not recorded (%v).\n", err)
	encoded, encodeErr := json.MarshalIndent(summary, "", "  ")
	if encodeErr != nil {
		return
	}
	fmt.Fprintf(g.out, "%s\n", encoded)
}

func printQuestion(out io.Writer, current, total int, question quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Question %d of %d", current, total)
	if question.Category != "" {
		fmt.Fprintf(out, " [%s", question.Category)
		if question.Difficulty != quiz.DifficultyAny {
			fmt.Fprintf(out, ", %s", question.Difficulty.Label())
		}
		fmt.Fprint(out, "]")
	}
	fmt.Fprintf(out, "\n\n%s\n\n", question.Text)
	for idx, answer := range question.Answers {
		fmt.Fprintf(out, "%c. %s\n", 'A'+idx, answer)
	}
	fmt.Fprintln(out)
}
