package practice

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/studyhub/backend/internal/models"
	"go.uber.org/zap"
)

// Observer is notified about session activity. Implementations must not
// call back into the session.
type Observer interface {
	AnswerRecorded(outcome Outcome)
	SessionsActive(n int)
}

type nopObserver struct{}

func (nopObserver) AnswerRecorded(Outcome) {}
func (nopObserver) SessionsActive(int)     {}

// ResetScope selects what a reset clears.
type ResetScope string

const (
	ResetCursor ResetScope = "cursor"
	ResetAll    ResetScope = "all"
)

// Session owns one State and its countdown. Ticks and learner actions are
// serialised on mu, so whichever of expiry and submission gets the lock first
// resolves the question and the other sees ErrInvalidTransition.
type Session struct {
	id       string
	bank     QuestionBank
	timer    Scheduler
	observer Observer
	logger   *zap.Logger

	mu       sync.Mutex
	state    State
	token    uint64
	closed   bool
	lastSeen time.Time
	now      func() time.Time
}

type SessionOptions struct {
	QuestionSeconds int
	Timer           Scheduler
	Observer        Observer
	Logger          *zap.Logger
}

// NewSession starts a session on the first question of category and starts its countdown.
func NewSession(id string, bank QuestionBank, category string, opts SessionOptions) (*Session, error) {
	if _, err := bank.QuestionAt(category, 0); err != nil {
		return nil, err
	}
	if opts.Timer == nil {
		opts.Timer = NewTimer(time.Second)
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		id:       id,
		bank:     bank,
		timer:    opts.Timer,
		observer: opts.Observer,
		logger:   opts.Logger.With(zap.String("session_id", id)),
		state:    NewState(category, opts.QuestionSeconds),
		now:      time.Now,
	}
	s.lastSeen = s.now()

	s.mu.Lock()
	s.startTimerLocked()
	s.mu.Unlock()
	return s, nil
}

func (s *Session) ID() string { return s.id }

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the current state together with its question.
func (s *Session) Current() (State, models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.currentQuestionLocked()
	return s.state, q, err
}

// Submit answers the current question with choice.
func (s *Session) Submit(choice string) (Outcome, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touchLocked(); err != nil {
		return Outcome{}, s.state, err
	}
	out, err := s.submitLocked(&choice)
	return out, s.state, err
}

// Advance moves to the next question once the current one is answered.
func (s *Session) Advance() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touchLocked(); err != nil {
		return s.state, err
	}
	questions, err := s.bank.QuestionsFor(s.state.Category)
	if err != nil {
		return s.state, err
	}
	next, err := s.state.Advance(len(questions))
	if err != nil {
		return s.state, err
	}
	s.state = next
	s.startTimerLocked()
	return s.state, nil
}

// Reset seeks back to the first question. ResetAll additionally clears
// score, streak and completion.
func (s *Session) Reset(scope ResetScope) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touchLocked(); err != nil {
		return s.state, err
	}
	switch scope {
	case ResetAll:
		s.state = s.state.ResetAll()
	case ResetCursor, "":
		s.state = s.state.ResetCursor()
	default:
		return s.state, fmt.Errorf("unknown reset scope %q", scope)
	}
	s.startTimerLocked()
	return s.state, nil
}

// SwitchCategory starts category from its first question.
func (s *Session) SwitchCategory(category string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touchLocked(); err != nil {
		return s.state, err
	}
	if _, err := s.bank.QuestionAt(category, 0); err != nil {
		return s.state, err
	}
	s.state = s.state.SwitchCategory(category)
	s.startTimerLocked()
	return s.state, nil
}

// Close stops the countdown. Further operations fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.timer.Stop()
}

// IdleSince reports when the learner last acted on the session.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) tick(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || token != s.token {
		return
	}

	next, expired := s.state.Tick()
	s.state = next
	if !expired {
		return
	}

	s.timer.Stop()
	if _, err := s.submitLocked(nil); err != nil && !errors.Is(err, ErrInvalidTransition) {
		s.logger.Error("[practice] timeout submission failed", zap.Error(err))
	}
}

func (s *Session) submitLocked(choice *string) (Outcome, error) {
	q, err := s.currentQuestionLocked()
	if err != nil {
		s.logger.Error("[practice] current question unavailable",
			zap.String("category", s.state.Category),
			zap.Int("index", s.state.CurrentIndex),
			zap.Error(err))
		return Outcome{}, err
	}

	next, out, err := s.state.Submit(q, choice)
	if err != nil {
		s.logger.Debug("[practice] ignored submission", zap.String("question_id", q.ID), zap.Error(err))
		return Outcome{}, err
	}
	s.state = next
	s.timer.Stop()
	s.token = 0

	s.logger.Info("[practice] question answered",
		zap.String("category", out.Category),
		zap.String("question_id", out.QuestionID),
		zap.Bool("correct", out.Correct),
		zap.Bool("timed_out", out.TimedOut),
		zap.Int("score", s.state.Score),
		zap.Int("streak", s.state.Streak))
	s.observer.AnswerRecorded(out)
	return out, nil
}

func (s *Session) currentQuestionLocked() (models.Question, error) {
	return s.bank.QuestionAt(s.state.Category, s.state.CurrentIndex)
}

func (s *Session) startTimerLocked() {
	s.token = s.timer.Start(s.tick)
}

func (s *Session) touchLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.lastSeen = s.now()
	return nil
}
