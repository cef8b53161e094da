package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/mistakebook/internal/config"
	"github.com/example/mistakebook/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Connect(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "data", "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func problem(id string, attempts, correct int) models.Problem {
	acc := 0
	if attempts > 0 {
		acc = (200*correct + attempts) / (2 * attempts)
	}
	return models.Problem{
		ID:            id,
		Title:         "title " + id,
		Category:      "押し引き",
		QuestionImage: "data:image/png;base64,cQ==",
		AnswerImage:   "data:image/png;base64,YQ==",
		Stats:         models.Stats{Attempts: attempts, Correct: correct, Accuracy: acc},
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestStore_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", "one"))
	require.NoError(t, s.Put(ctx, "k", "two"))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProblemRepository_EmptyStore(t *testing.T) {
	repo := NewProblemRepository(newTestStore(t), nil)
	got := repo.LoadAll(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProblemRepository_RoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewProblemRepository(newTestStore(t), nil)

	in := []models.Problem{problem("c", 0, 0), problem("a", 4, 3), problem("b", 5, 1)}
	require.NoError(t, repo.SaveAll(ctx, in))

	first := repo.LoadAll(ctx)
	second := repo.LoadAll(ctx)
	assert.Equal(t, in, first)
	assert.Equal(t, first, second)
}

func TestProblemRepository_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewProblemRepository(s, nil)

	require.NoError(t, repo.SaveAll(ctx, nil))
	raw, err := s.Get(ctx, ProblemsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestProblemRepository_CorruptCollection(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"id":"x"}`},
		{"missing id", `[{"title":"t","stats":{"attempts":0,"correct":0,"accuracy":0}}]`},
		{"correct exceeds attempts", `[{"id":"x","stats":{"attempts":1,"correct":2,"accuracy":100}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore(t)
			core, logs := observer.New(zapcore.WarnLevel)
			repo := NewProblemRepository(s, zap.New(core))

			require.NoError(t, s.Put(ctx, ProblemsKey, tt.payload))

			got := repo.LoadAll(ctx)
			assert.Empty(t, got)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestProblemRepository_AcceptsBrowserExport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewProblemRepository(s, nil)

	payload := `[{"id":"1700000000000","title":"南場の押し引き","category":"押し引き",` +
		`"questionImage":"data:image/png;base64,AA==","answerImage":"data:image/png;base64,AQ==",` +
		`"stats":{"attempts":3,"correct":2,"accuracy":67},"createdAt":"2024-03-01T10:00:00.000Z"}]`
	require.NoError(t, s.Put(ctx, ProblemsKey, payload))

	got := repo.LoadAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "1700000000000", got[0].ID)
	assert.Equal(t, 67, got[0].Stats.Accuracy)
	assert.Equal(t, 2024, got[0].CreatedAt.Year())
}

func TestProblemRepository_UpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewProblemRepository(newTestStore(t), nil)

	require.NoError(t, repo.Upsert(ctx, problem("a", 0, 0)))
	require.NoError(t, repo.Upsert(ctx, problem("b", 0, 0)))
	require.NoError(t, repo.Upsert(ctx, problem("a", 2, 1)))

	got := repo.LoadAll(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 2, got[0].Stats.Attempts)

	p, ok := repo.GetByID(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", p.ID)

	require.NoError(t, repo.Remove(ctx, "a"))
	require.NoError(t, repo.Remove(ctx, "unknown"))
	got = repo.LoadAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	_, ok = repo.GetByID(ctx, "a")
	assert.False(t, ok)
}

func TestProblemRepository_WritesAbortWhenStoreLocked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "test.db")
	db, err := Connect(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   path + "?_busy_timeout=50",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	repo := NewProblemRepository(NewStore(db), zap.New(core))
	require.NoError(t, repo.SaveAll(ctx, []models.Problem{
		problem("a", 0, 0), problem("b", 1, 1), problem("c", 2, 0),
	}))

	other, err := sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { other.Close() })
	conn, err := other.Conn(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = conn.ExecContext(ctx, "BEGIN EXCLUSIVE")
	require.NoError(t, err)

	err = repo.Upsert(ctx, problem("d", 0, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load problems")

	err = repo.Remove(ctx, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load problems")
	assert.Zero(t, logs.Len())

	_, err = conn.ExecContext(ctx, "ROLLBACK")
	require.NoError(t, err)

	got := repo.LoadAll(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestProblemRepository_UpsertOverCorruptCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewProblemRepository(s, nil)
	require.NoError(t, s.Put(ctx, ProblemsKey, "{{{"))

	require.NoError(t, repo.Upsert(ctx, problem("a", 0, 0)))
	got := repo.LoadAll(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewCategoryRepository(s, nil)

	assert.Equal(t, DefaultCategories, repo.LoadCategories(ctx))

	require.NoError(t, repo.AddCategory(ctx, "  牌効率 "))
	require.NoError(t, repo.AddCategory(ctx, "牌効率"))
	require.NoError(t, repo.AddCategory(ctx, "その他"))
	require.NoError(t, repo.AddCategory(ctx, ""))

	got := repo.LoadCategories(ctx)
	assert.Len(t, got, len(DefaultCategories)+1)
	assert.Equal(t, "牌効率", got[len(got)-1])

	raw, err := s.Get(ctx, CategoriesKey)
	require.NoError(t, err)
	assert.Equal(t, `["牌効率"]`, raw)
}

func TestTitleRepository_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTitleRepository(newTestStore(t), nil)

	assert.Empty(t, repo.LoadTitleHistory(ctx))

	for _, title := range []string{"a", "b", "c", "a"} {
		require.NoError(t, repo.AddTitle(ctx, title))
	}
	assert.Equal(t, []string{"a", "c", "b"}, repo.LoadTitleHistory(ctx))
}

func TestTitleRepository_Capped(t *testing.T) {
	ctx := context.Background()
	repo := NewTitleRepository(newTestStore(t), nil)

	for i := 0; i < MaxTitleHistory+5; i++ {
		require.NoError(t, repo.AddTitle(ctx, fmt.Sprintf("t%02d", i)))
	}
	got := repo.LoadTitleHistory(ctx)
	require.Len(t, got, MaxTitleHistory)
	assert.Equal(t, fmt.Sprintf("t%02d", MaxTitleHistory+4), got[0])
}
