package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/mistakebook/pkg/models"
)

// ProblemRepository handles persistence of the problem collection.
// The whole collection is stored as one JSON array under ProblemsKey.
type ProblemRepository struct {
	store *Store
	log   *zap.Logger
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(store *Store, log *zap.Logger) *ProblemRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProblemRepository{store: store, log: log}
}

// LoadAll returns every stored problem in insertion order. A missing,
// unreadable or malformed collection yields an empty slice; the cause is
// logged and never returned.
func (r *ProblemRepository) LoadAll(ctx context.Context) []models.Problem {
	problems, err := r.load(ctx)
	if err != nil {
		r.log.Warn("problem collection unreadable, starting empty", zap.Error(err))
		return []models.Problem{}
	}
	return problems
}

// load reads the collection for a write. Missing or corrupt data counts as
// an empty collection; store failures are returned so the caller never
// overwrites data it could not read.
func (r *ProblemRepository) load(ctx context.Context) ([]models.Problem, error) {
	payload, err := r.store.Get(ctx, ProblemsKey)
	if errors.Is(err, ErrNotFound) {
		return []models.Problem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var problems []models.Problem
	if err := json.Unmarshal([]byte(payload), &problems); err != nil {
		r.log.Warn("problem collection corrupt, starting empty", zap.Error(err))
		return []models.Problem{}, nil
	}
	for i, p := range problems {
		if err := p.Validate(); err != nil {
			r.log.Warn("problem collection malformed, starting empty",
				zap.Int("index", i),
				zap.String("id", p.ID),
				zap.Error(err))
			return []models.Problem{}, nil
		}
	}
	if problems == nil {
		problems = []models.Problem{}
	}
	return problems, nil
}

// SaveAll replaces the stored collection.
func (r *ProblemRepository) SaveAll(ctx context.Context, problems []models.Problem) error {
	if problems == nil {
		problems = []models.Problem{}
	}
	if err := r.store.PutJSON(ctx, ProblemsKey, problems); err != nil {
		return fmt.Errorf("failed to save problems: %w", err)
	}
	return nil
}

// Upsert replaces the problem with the same ID or appends it.
func (r *ProblemRepository) Upsert(ctx context.Context, p models.Problem) error {
	problems, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load problems: %w", err)
	}
	replaced := false
	for i := range problems {
		if problems[i].ID == p.ID {
			problems[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		problems = append(problems, p)
	}
	return r.SaveAll(ctx, problems)
}

// Remove deletes the problem with the given ID. Removing an unknown ID
// leaves the collection unchanged.
func (r *ProblemRepository) Remove(ctx context.Context, id string) error {
	problems, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load problems: %w", err)
	}
	kept := problems[:0]
	for _, p := range problems {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return r.SaveAll(ctx, kept)
}

// GetByID returns a single problem.
func (r *ProblemRepository) GetByID(ctx context.Context, id string) (models.Problem, bool) {
	for _, p := range r.LoadAll(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return models.Problem{}, false
}
