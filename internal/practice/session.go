// Package practice runs practice and review sessions over the problem
// collection and records judged attempts.
package practice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/mistakebook/pkg/models"
)

var (
	ErrNotRevealed      = errors.New("practice: answer not revealed")
	ErrAlreadyAnswered  = errors.New("practice: already answered")
	ErrNotRecorded      = errors.New("practice: no judgement recorded")
	ErrJudgementPending = errors.New("practice: judgement pending")
	ErrNoPrevious       = errors.New("practice: no previous item")
	ErrNoNext           = errors.New("practice: no next item")
	ErrSessionComplete  = errors.New("practice: session complete")
	ErrSessionClosed    = errors.New("practice: session closed")
)

// State is the position of a session in its per-item cycle.
type State int

const (
	// Browsing shows the question of the current item
	Browsing State = iota
	// Revealed shows the answer and accepts a judgement
	Revealed
	// Recorded means the judgement is stored and the session waits to advance
	Recorded
	// Complete is terminal
	Complete
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Revealed:
		return "revealed"
	case Recorded:
		return "recorded"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Kind distinguishes free practice from review of weak items.
type Kind string

const (
	KindPractice Kind = "practice"
	KindReview   Kind = "review"
)

// Timer schedules one deferred call per tag.
type Timer interface {
	AfterFunc(tag string, d time.Duration, fn func()) error
	Cancel(tag string)
}

// Recorder stores the outcome of a judged attempt and returns the updated
// problem.
type Recorder interface {
	RecordAttempt(ctx context.Context, id string, correct bool) (models.Problem, error)
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID string
	Kind      Kind
	State     State
	Item      models.Problem // zero when the session is complete
	Index     int
	Total     int
	Progress  int // percentage of items reached, rounded
	Answered  int
	Correct   int
}

// Session walks a fixed list of problems. It is safe for concurrent use;
// the auto-advance task runs on the timer's goroutine.
type Session struct {
	id       string
	kind     Kind
	delay    time.Duration
	recorder Recorder
	timer    Timer
	log      *zap.Logger

	mu        sync.Mutex
	items     []models.Problem
	index     int
	state     State
	step      uint64
	closed    bool
	judging   bool
	answered  int
	correct   int
	onAdvance func(Snapshot)
}

// NewSession starts a session over items. The slice is copied, so later
// changes to the collection do not affect the session. An empty list
// starts complete. A zero delay disables auto-advance.
func NewSession(kind Kind, items []models.Problem, recorder Recorder, timer Timer, delay time.Duration, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		id:       uuid.NewString(),
		kind:     kind,
		delay:    delay,
		recorder: recorder,
		timer:    timer,
		items:    append([]models.Problem(nil), items...),
	}
	s.log = log.With(zap.String("session", s.id), zap.String("kind", string(kind)))
	if len(s.items) == 0 {
		s.state = Complete
	}
	return s
}

// ID returns the session identifier used to tag its scheduled task.
func (s *Session) ID() string {
	return s.id
}

// OnAdvance registers fn to be called after the session advances on its
// own. fn runs without the session lock held.
func (s *Session) OnAdvance(fn func(Snapshot)) {
	s.mu.Lock()
	s.onAdvance = fn
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reveal shows the answer.
func (s *Session) Reveal() error {
	return s.flip(Browsing, Revealed)
}

// Hide goes back to the question.
func (s *Session) Hide() error {
	return s.flip(Revealed, Browsing)
}

// Toggle switches between question and answer.
func (s *Session) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}
	if s.judging {
		return ErrJudgementPending
	}
	switch s.state {
	case Browsing:
		s.state = Revealed
	case Revealed:
		s.state = Browsing
	default:
		return ErrJudgementPending
	}
	return nil
}

func (s *Session) flip(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}
	if s.state == Recorded || s.judging {
		return ErrJudgementPending
	}
	if s.state != from {
		return fmt.Errorf("practice: cannot go from %s to %s", s.state, to)
	}
	s.state = to
	return nil
}

// Judge records whether the user answered the current item correctly.
// It is accepted only while the answer is revealed; a rejected or failed
// judgement leaves the session unchanged. The recorder runs without the
// session lock held, so its observers may read the session. Navigation
// and further judgements return ErrJudgementPending until it returns. If
// the session is closed meanwhile the attempt stays recorded and Judge
// returns ErrSessionClosed.
func (s *Session) Judge(ctx context.Context, correct bool) error {
	s.mu.Lock()
	if err := s.checkLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.judging {
		s.mu.Unlock()
		return ErrJudgementPending
	}
	switch s.state {
	case Browsing:
		s.mu.Unlock()
		return ErrNotRevealed
	case Recorded:
		s.mu.Unlock()
		return ErrAlreadyAnswered
	}
	s.judging = true
	index := s.index
	id := s.items[index].ID
	s.mu.Unlock()

	updated, err := s.recorder.RecordAttempt(ctx, id, correct)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.judging = false
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	if s.closed {
		return ErrSessionClosed
	}
	s.items[index] = updated
	s.state = Recorded
	s.answered++
	if correct {
		s.correct++
	}

	if s.delay > 0 && s.timer != nil {
		step := s.step
		if err := s.timer.AfterFunc(s.id, s.delay, func() { s.autoAdvance(step) }); err != nil {
			s.log.Warn("auto-advance not scheduled", zap.Error(err))
		}
	}
	return nil
}

// Advance moves past a recorded item, to the next item or to Complete.
// Any pending auto-advance is cancelled.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}
	if s.state != Recorded {
		return ErrNotRecorded
	}
	if s.timer != nil {
		s.timer.Cancel(s.id)
	}
	s.advanceLocked()
	return nil
}

// Previous moves to the previous item without recording anything.
func (s *Session) Previous() error {
	return s.move(-1, ErrNoPrevious)
}

// Next moves to the next item without recording anything.
func (s *Session) Next() error {
	return s.move(1, ErrNoNext)
}

func (s *Session) move(delta int, atEnd error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}
	if s.state == Recorded || s.judging {
		return ErrJudgementPending
	}
	target := s.index + delta
	if target < 0 || target >= len(s.items) {
		return atEnd
	}
	s.index = target
	s.state = Browsing
	return nil
}

// Close abandons the session and cancels its pending task.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.step++
	if s.timer != nil {
		s.timer.Cancel(s.id)
	}
}

func (s *Session) autoAdvance(step uint64) {
	s.mu.Lock()
	if s.closed || s.step != step || s.state != Recorded {
		s.mu.Unlock()
		return
	}
	s.advanceLocked()
	snap := s.snapshotLocked()
	hook := s.onAdvance
	s.mu.Unlock()

	s.log.Debug("auto-advanced", zap.Stringer("state", snap.State), zap.Int("index", snap.Index))
	if hook != nil {
		hook(snap)
	}
}

func (s *Session) advanceLocked() {
	s.step++
	if s.index+1 >= len(s.items) {
		s.state = Complete
		return
	}
	s.index++
	s.state = Browsing
}

func (s *Session) checkLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.state == Complete {
		return ErrSessionComplete
	}
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		Kind:      s.kind,
		State:     s.state,
		Index:     s.index,
		Total:     len(s.items),
		Answered:  s.answered,
		Correct:   s.correct,
	}
	if s.state != Complete {
		snap.Item = s.items[s.index]
	}
	if snap.Total > 0 {
		snap.Progress = (200*(s.index+1) + snap.Total) / (2 * snap.Total)
	}
	return snap
}
