package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type State int

const (
	StateEmpty State = iota
	StateActive
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Labels are descriptive metadata recorded in the summary; they do not
// affect scoring.
type Labels struct {
	Category   string
	Difficulty string
}

type SessionOption func(*Session)

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is one play-through: fetch once, then answer questions in order.
// A Session has a single owner and is not safe for concurrent use.
//
// Invariants:
//   - index only grows, and stops at len(questions).
//   - len(answers) is index or index+1; it is index+1 only while the current
//     question has been answered and Next has not been called yet.
//   - score <= len(answers) <= len(questions).
type Session struct {
	questions []Question
	index     int
	score     int
	answers   []AnswerRecord
	labels      Labels
	startedAt   time.Time
	completedAt time.Time
	now         func() time.Time
}

func NewSession(opts ...SessionOption) *Session {
	session := &Session{now: time.Now}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Start fetches a question set and begins the session. On failure the
// session keeps whatever state it had before the call.
func (s *Session) Start(ctx context.Context, source QuestionSource, req FetchRequest, labels Labels) error {
	if source == nil {
		return &FetchError{Reason: FetchReasonTransport, Err: errors.New("question source is not configured")}
	}

	questions, err := source.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return &FetchError{Reason: FetchReasonShortResult, Err: errors.New("no questions returned")}
	}

	s.questions = questions
	s.index = 0
	s.score = 0
	s.answers = make([]AnswerRecord, 0, len(questions))
	s.labels = labels
	s.startedAt = s.now()
	s.completedAt = time.Time{}
	return nil
}

// Reset returns the session to the empty state.
func (s *Session) Reset() {
	s.questions = nil
	s.index = 0
	s.score = 0
	s.answers = nil
	s.labels = Labels{}
	s.startedAt = time.Time{}
	s.completedAt = time.Time{}
}

func (s *Session) State() State {
	switch {
	case len(s.questions) == 0:
		return StateEmpty
	case s.index >= len(s.questions):
		return StateComplete
	default:
		return StateActive
	}
}

func (s *Session) CurrentQuestion() (Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// CheckAnswer scores answer against the current question and records it.
func (s *Session) CheckAnswer(answer string) (bool, error) {
	question, ok := s.CurrentQuestion()
	if !ok {
		if s.State() == StateEmpty {
			return false, fmt.Errorf("%w: %w", ErrNoCurrentQuestion, ErrSessionNotStarted)
		}
		return false, ErrNoCurrentQuestion
	}
	if len(s.answers) > s.index {
		return false, ErrAlreadyAnswered
	}

	correct := answer == question.CorrectAnswer
	s.answers = append(s.answers, AnswerRecord{
		Question:      question.Text,
		UserAnswer:    answer,
		CorrectAnswer: question.CorrectAnswer,
		IsCorrect:     correct,
	})
	if correct {
		s.score++
	}
	return correct, nil
}

// Next moves past the answered current question and reports whether another
// question remains. It returns false exactly when the last question has just
// been consumed, and keeps returning false once the session is complete.
func (s *Session) Next() (bool, error) {
	switch s.State() {
	case StateEmpty:
		return false, ErrSessionNotStarted
	case StateComplete:
		return false, nil
	}
	if len(s.answers) <= s.index {
		return false, ErrQuestionUnanswered
	}

	s.index++
	if s.index == len(s.questions) {
		s.completedAt = s.now()
	}
	return s.index < len(s.questions), nil
}

// Progress returns the 1-based position and the total count. The position is
// clamped to total once the session is complete; an empty session is (0, 0).
func (s *Session) Progress() (int, int) {
	total := len(s.questions)
	if total == 0 {
		return 0, 0
	}
	current := s.index + 1
	if current > total {
		current = total
	}
	return current, total
}

func (s *Session) Score() int { return s.score }

// Answers returns a copy of the answer log.
func (s *Session) Answers() []AnswerRecord {
	out := make([]AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// Questions returns a copy of the question list.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Summary snapshots the session. It may be called mid-session, in which case
// unanswered questions count as incorrect. Date is the completion time once
// the session is complete and the start time before that, so repeated calls
// differ at most in TimeTakenSeconds.
func (s *Session) Summary() Summary {
	total := len(s.questions)

	var date time.Time
	elapsed := 0
	if !s.startedAt.IsZero() {
		end, stamp := s.completedAt, s.completedAt
		if end.IsZero() {
			end, stamp = s.now(), s.startedAt
		}
		if d := end.Sub(s.startedAt); d > 0 {
			elapsed = int(d / time.Second)
		}
		date = stamp.UTC().Truncate(time.Second)
	}

	return Summary{
		Date:             date,
		Category:         s.labels.Category,
		Difficulty:       s.labels.Difficulty,
		TotalQuestions:   total,
		CorrectAnswers:   s.score,
		IncorrectAnswers: total - s.score,
		ScorePercentage:  scorePercentage(s.score, total),
		TimeTakenSeconds: elapsed,
		Answers:          s.Answers(),
	}
}
