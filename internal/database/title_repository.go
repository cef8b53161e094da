package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxTitleHistory caps the number of remembered titles.
const MaxTitleHistory = 20

// TitleRepository keeps recently used problem titles for autocompletion,
// most recent first.
type TitleRepository struct {
	store *Store
	log   *zap.Logger
}

// NewTitleRepository creates a new title history repository
func NewTitleRepository(store *Store, log *zap.Logger) *TitleRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &TitleRepository{store: store, log: log}
}

// LoadTitleHistory returns the remembered titles, most recent first.
func (r *TitleRepository) LoadTitleHistory(ctx context.Context) []string {
	var titles []string
	err := r.store.GetJSON(ctx, TitlesKey, &titles)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn("title history unreadable, starting empty", zap.Error(err))
		}
		return []string{}
	}
	return titles
}

// AddTitle moves title to the front of the history.
func (r *TitleRepository) AddTitle(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	history := []string{title}
	for _, t := range r.LoadTitleHistory(ctx) {
		if t != title {
			history = append(history, t)
		}
	}
	if len(history) > MaxTitleHistory {
		history = history[:MaxTitleHistory]
	}

	if err := r.store.PutJSON(ctx, TitlesKey, history); err != nil {
		return fmt.Errorf("failed to save title history: %w", err)
	}
	return nil
}
