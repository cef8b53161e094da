package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mistakebook/pkg/models"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// run executes the root command against a throwaway home directory.
func run(t *testing.T, db string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db}, args...))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCommands_EndToEnd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	db := filepath.Join(home, "test.db")

	q := filepath.Join(home, "q.png")
	a := filepath.Join(home, "a.png")
	require.NoError(t, os.WriteFile(q, pngBytes, 0o644))
	require.NoError(t, os.WriteFile(a, pngBytes, 0o644))

	assert.Contains(t, run(t, db, "add", "South round push", "押し引き", q, a), "✅ Added 'South round push'")
	assert.Contains(t, run(t, db, "add", "Tanki wait", "牌効率", q, a), "✅ Added 'Tanki wait'")

	out := run(t, db, "list", "--search", "SOUTH", "--category", "")
	assert.Contains(t, out, "South round push")
	assert.NotContains(t, out, "Tanki wait")

	out = run(t, db, "list", "--search", "", "--category", "牌効率")
	assert.Contains(t, out, "Tanki wait")

	out = run(t, db, "stats")
	assert.Contains(t, out, "Problems:     2")
	assert.Contains(t, out, "Needs review: 0")

	assert.Contains(t, run(t, db, "categories"), "牌効率")
	assert.Contains(t, run(t, db, "titles"), "Tanki wait")
	assert.Contains(t, run(t, db, "review"), "Nothing to review")

	export := filepath.Join(home, "report.xlsx")
	assert.Contains(t, run(t, db, "export", export), "Exported")
	_, err := os.Stat(export)
	assert.NoError(t, err)
}

func TestImport_DuplicateRows(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	db := filepath.Join(home, "test.db")

	require.NoError(t, os.WriteFile(filepath.Join(home, "q.png"), pngBytes, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(home, "a.png"), pngBytes, 0o644))
	csv := filepath.Join(home, "problems.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"title,category,question,answer\n"+
			"Dama or riichi,リーチ判断,q.png,a.png\n"+
			"Dama or riichi,リーチ判断,q.png,a.png\n"), 0o644))

	assert.Contains(t, importCmd.Long, "--keep-duplicates")
	assert.Contains(t, importCmd.Long, "skipped")

	out := run(t, db, "import", "--keep-duplicates=false", csv)
	assert.Contains(t, out, "1 created, 1 skipped")

	out = run(t, db, "import", "--keep-duplicates", csv)
	assert.Contains(t, out, "2 created, 0 skipped")
	assert.Contains(t, run(t, db, "stats"), "Problems:     3")
}

func TestResolveProblem(t *testing.T) {
	problems := []models.Problem{{ID: "abc123"}, {ID: "abd456"}, {ID: "ab"}}

	p, err := resolveProblem(problems, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", p.ID)

	p, err = resolveProblem(problems, "ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", p.ID)

	_, err = resolveProblem(problems, "a")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveProblem(problems, "zzz")
	assert.ErrorContains(t, err, "no problem")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("1234567890"))
	assert.Equal(t, "abc", shortID("abc"))
}
