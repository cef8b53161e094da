package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultCategories are always offered and never persisted.
var DefaultCategories = []string{
	"捨て牌",
	"リーチ判断",
	"押し引き",
	"テンパイ形",
	"鳴き判断",
	"その他",
}

// CategoryRepository handles the list of problem categories
type CategoryRepository struct {
	store *Store
	log   *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(store *Store, log *zap.Logger) *CategoryRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryRepository{store: store, log: log}
}

// LoadCategories returns the defaults followed by the custom categories.
func (r *CategoryRepository) LoadCategories(ctx context.Context) []string {
	all := append([]string{}, DefaultCategories...)
	return append(all, r.custom(ctx)...)
}

// AddCategory registers a category. Blank names and names already known
// are ignored.
func (r *CategoryRepository) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || isDefaultCategory(name) {
		return nil
	}
	custom := r.custom(ctx)
	for _, c := range custom {
		if c == name {
			return nil
		}
	}
	custom = append(custom, name)
	if err := r.store.PutJSON(ctx, CategoriesKey, custom); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) custom(ctx context.Context) []string {
	var custom []string
	err := r.store.GetJSON(ctx, CategoriesKey, &custom)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn("category list unreadable, using defaults", zap.Error(err))
		}
		return nil
	}
	return custom
}

func isDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}
