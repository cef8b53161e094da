package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/mistakebook/internal/config"
	"github.com/example/mistakebook/internal/review"
	"github.com/example/mistakebook/internal/stats"
	"github.com/example/mistakebook/pkg/models"
)

var (
	ErrProblemNotFound   = errors.New("practice: problem not found")
	ErrIncompleteProblem = errors.New("practice: title, category and both images are required")
)

// ProblemStore persists the problem collection.
type ProblemStore interface {
	LoadAll(ctx context.Context) []models.Problem
	Upsert(ctx context.Context, p models.Problem) error
	Remove(ctx context.Context, id string) error
}

// CategoryStore keeps the category list.
type CategoryStore interface {
	LoadCategories(ctx context.Context) []string
	AddCategory(ctx context.Context, name string) error
}

// TitleStore keeps recently used titles.
type TitleStore interface {
	LoadTitleHistory(ctx context.Context) []string
	AddTitle(ctx context.Context, title string) error
}

// Filter narrows the problem list. Empty fields match everything.
type Filter struct {
	Query    string   // case-insensitive title substring
	Category string   // exact category
	IDs      []string // explicit problem ids
}

// Match reports whether p passes the filter.
func (f Filter) Match(p models.Problem) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Query)) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if len(f.IDs) > 0 {
		for _, id := range f.IDs {
			if id == p.ID {
				return true
			}
		}
		return false
	}
	return true
}

// NewProblem is the user input for a new problem.
type NewProblem struct {
	Title         string
	Category      string
	QuestionImage string
	AnswerImage   string
}

// Report is the data behind the statistics view.
type Report struct {
	Summary    models.Summary
	Categories []models.CategoryStats
	Problems   []models.Problem
	Review     int // problems currently in the review queue
}

// Service is the entry point for everything that reads or changes problems.
type Service struct {
	problems   ProblemStore
	categories CategoryStore
	titles     TitleStore
	timer      Timer
	cfg        config.SessionConfig
	log        *zap.Logger

	now   func() time.Time
	newID func() string

	writeMu   sync.Mutex
	obsMu     sync.RWMutex
	observers []func(models.Problem)
}

// NewService creates a service. timer may be nil, in which case sessions
// only advance on explicit calls.
func NewService(problems ProblemStore, categories CategoryStore, titles TitleStore, timer Timer, cfg config.SessionConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		problems:   problems,
		categories: categories,
		titles:     titles,
		timer:      timer,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Subscribe registers fn to be called with the updated problem after every
// recorded attempt. Observers run synchronously on the recording goroutine
// after the write completes; a session being judged is unlocked at that
// point, so fn may take snapshots of it.
func (s *Service) Subscribe(fn func(models.Problem)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

// RecordAttempt applies a judgement to the stored problem with the given id.
func (s *Service) RecordAttempt(ctx context.Context, id string, correct bool) (models.Problem, error) {
	s.writeMu.Lock()
	p, ok := s.find(ctx, id)
	if !ok {
		s.writeMu.Unlock()
		return models.Problem{}, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	p.Stats = stats.RecordAttempt(p.Stats, correct)
	err := s.problems.Upsert(ctx, p)
	s.writeMu.Unlock()
	if err != nil {
		return models.Problem{}, fmt.Errorf("failed to save attempt: %w", err)
	}

	s.log.Info("attempt recorded",
		zap.String("id", p.ID),
		zap.Bool("correct", correct),
		zap.Int("attempts", p.Stats.Attempts),
		zap.Int("accuracy", p.Stats.Accuracy))

	s.obsMu.RLock()
	observers := append([]func(models.Problem){}, s.observers...)
	s.obsMu.RUnlock()
	for _, fn := range observers {
		fn(p)
	}
	return p, nil
}

// Problems returns the whole collection in insertion order.
func (s *Service) Problems(ctx context.Context) []models.Problem {
	return s.problems.LoadAll(ctx)
}

// Problem returns a single problem.
func (s *Service) Problem(ctx context.Context, id string) (models.Problem, error) {
	p, ok := s.find(ctx, id)
	if !ok {
		return models.Problem{}, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	return p, nil
}

// Search returns the problems matching f in insertion order.
func (s *Service) Search(ctx context.Context, f Filter) []models.Problem {
	var out []models.Problem
	for _, p := range s.problems.LoadAll(ctx) {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ReviewQueue returns the problems that currently need review.
func (s *Service) ReviewQueue(ctx context.Context) []models.Problem {
	return review.Select(s.problems.LoadAll(ctx))
}

// AddProblem validates and stores a new problem with zeroed stats.
func (s *Service) AddProblem(ctx context.Context, in NewProblem) (models.Problem, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || in.Category == "" || in.QuestionImage == "" || in.AnswerImage == "" {
		return models.Problem{}, ErrIncompleteProblem
	}

	p := models.Problem{
		ID:            s.newID(),
		Title:         in.Title,
		Category:      in.Category,
		QuestionImage: in.QuestionImage,
		AnswerImage:   in.AnswerImage,
		CreatedAt:     s.now().UTC(),
	}

	s.writeMu.Lock()
	err := s.problems.Upsert(ctx, p)
	s.writeMu.Unlock()
	if err != nil {
		return models.Problem{}, fmt.Errorf("failed to add problem: %w", err)
	}

	if err := s.titles.AddTitle(ctx, p.Title); err != nil {
		s.log.Warn("failed to remember title", zap.Error(err))
	}
	if err := s.categories.AddCategory(ctx, p.Category); err != nil {
		s.log.Warn("failed to register category", zap.Error(err))
	}

	s.log.Info("problem added", zap.String("id", p.ID), zap.String("category", p.Category))
	return p, nil
}

// DeleteProblem removes a problem.
func (s *Service) DeleteProblem(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, ok := s.find(ctx, id); !ok {
		return fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	if err := s.problems.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}
	s.log.Info("problem deleted", zap.String("id", id))
	return nil
}

// Categories returns the built-in and custom categories.
func (s *Service) Categories(ctx context.Context) []string {
	return s.categories.LoadCategories(ctx)
}

// AddCategory registers a custom category.
func (s *Service) AddCategory(ctx context.Context, name string) error {
	return s.categories.AddCategory(ctx, name)
}

// Titles returns recently used titles, most recent first.
func (s *Service) Titles(ctx context.Context) []string {
	return s.titles.LoadTitleHistory(ctx)
}

// Report computes the statistics view.
func (s *Service) Report(ctx context.Context) Report {
	problems := s.problems.LoadAll(ctx)
	return Report{
		Summary:    stats.Overall(problems),
		Categories: stats.ByCategory(problems),
		Problems:   problems,
		Review:     review.Count(problems),
	}
}

// NewPracticeSession starts a session over the problems matching f.
func (s *Service) NewPracticeSession(ctx context.Context, f Filter) *Session {
	return NewSession(KindPractice, s.Search(ctx, f), s, s.timer, s.cfg.PracticeDelay, s.log)
}

// NewReviewSession starts a session over the current review queue. The
// queue is computed once; items that recover during the session stay in it.
func (s *Service) NewReviewSession(ctx context.Context) *Session {
	return NewSession(KindReview, s.ReviewQueue(ctx), s, s.timer, s.cfg.ReviewDelay, s.log)
}

func (s *Service) find(ctx context.Context, id string) (models.Problem, bool) {
	for _, p := range s.problems.LoadAll(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return models.Problem{}, false
}
