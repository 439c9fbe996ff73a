package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/textquiz/internal/config"
	"github.com/abhisek/textquiz/internal/quizgen"
	"github.com/abhisek/textquiz/internal/store"
)

func sampleQuiz() quizgen.Quiz {
	return quizgen.Quiz{
		{MCQ: &quizgen.MCQ{
			Stem:    "The tourists visited ______ during the summer.",
			Options: []string{"tourist", "Paris", "summer"},
			Answer:  "Paris",
		}},
		{TF: &quizgen.TrueFalse{Statement: "The tourists visited summer during the summer.", Truth: false}},
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestRenderQuiz(t *testing.T) {
	got := renderQuiz("Quiz", sampleQuiz(), true)
	assert.Contains(t, got, "The tourists visited ______ during the summer.")
	assert.Contains(t, got, "B) Paris")
	assert.Contains(t, got, "✓")
	assert.Contains(t, got, "False")

	hidden := renderQuiz("Quiz", sampleQuiz(), false)
	assert.NotContains(t, hidden, "✓")
	assert.NotContains(t, hidden, "False")

	assert.Contains(t, renderQuiz("Quiz", nil, true), "No questions")
}

func TestGenerateSeededJSON(t *testing.T) {
	t.Setenv("TEXTQUIZ_NLP_ENGINE", "prose")
	dir := t.TempDir()
	input := filepath.Join(dir, "solar.txt")
	require.NoError(t, os.WriteFile(input, []byte(
		"The tourists visited Paris during the summer. "+
			"Jupiter is the largest planet in the Solar System. "+
			"Astronomers observe the outer planets with large telescopes. "+
			"The Amazon River flows through Brazil into the Atlantic Ocean."), 0o644))
	dbPath := filepath.Join(dir, "generate.db")

	first := run(t, "generate", input, "--json", "--seed", "7", "--db", dbPath)
	second := run(t, "generate", input, "--json", "--seed", "7", "--db", dbPath)
	assert.Equal(t, first, second)

	var wire []map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &wire))
	require.NotEmpty(t, wire)
	for _, q := range wire {
		assert.Contains(t, []any{"mcq", "tf"}, q["type"])
		assert.NotEmpty(t, q["question"])
		assert.NotEmpty(t, q["answer"])
		if q["type"] == "mcq" {
			assert.Contains(t, q["options"], q["answer"])
		} else {
			assert.NotContains(t, q, "options")
			assert.Contains(t, []any{"True", "False"}, q["answer"])
		}
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv("TEXTQUIZ_DB", "")
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cmd := &cobra.Command{}
	cmd.Flags().String("db", "", "")

	configured := filepath.Join(dir, "configured", "quiz.db")
	got, err := resolveDBPath(cmd, &config.Config{App: config.AppConfig{DBPath: configured}})
	require.NoError(t, err)
	assert.Equal(t, configured, got)
	assert.DirExists(t, filepath.Dir(configured))

	got, err = resolveDBPath(cmd, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "textquiz", "textquiz.db"), got)

	flag := filepath.Join(dir, "flag.db")
	require.NoError(t, cmd.Flags().Set("db", flag))
	got, err = resolveDBPath(cmd, &config.Config{App: config.AppConfig{DBPath: configured}})
	require.NoError(t, err)
	assert.Equal(t, flag, got)
}

func TestHistoryCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	rec := &store.QuizRecord{NumRequested: 10, TextPreview: "The tourists visited Paris.", Quiz: sampleQuiz()}
	require.NoError(t, s.QuizRepo().Save(context.Background(), rec))
	require.NoError(t, s.Close())

	out := run(t, "history", "list", "--db", dbPath)
	assert.Contains(t, out, rec.ID)
	assert.Contains(t, out, "The tourists visited Paris.")

	out = run(t, "history", "view", rec.ID, "--db", dbPath, "--json")
	assert.Contains(t, out, `"type": "mcq"`)
	assert.Contains(t, out, `"answer": "False"`)

	out = run(t, "history", "delete", rec.ID, "--db", dbPath)
	assert.Contains(t, out, "Deleted "+rec.ID)

	out = run(t, "history", "list", "--db", dbPath)
	assert.Contains(t, out, "No quizzes stored yet.")
}

func TestLLMCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "llm.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "notes",
		InputTokens: 1200, OutputTokens: 800, LatencyMs: 950, Success: true,
		RequestBody: "[user]\nAs an expert academic tutor", ResponseBody: "## Key Concepts",
	}))
	require.NoError(t, s.Close())

	out := run(t, "llm", "list", "--db", dbPath)
	assert.Contains(t, out, "gemini-2.0-flash")
	assert.Contains(t, out, "notes")

	out = run(t, "llm", "view", "1", "--db", dbPath)
	assert.Contains(t, out, "## Key Concepts")

	out = run(t, "llm", "stats", "--db", dbPath)
	assert.Contains(t, out, "Usage by Purpose")
	assert.Contains(t, out, "2000")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "textquiz (devel)\n", run(t, "version"))
}

func TestReadInput(t *testing.T) {
	generateCmd.SetIn(strings.NewReader("from stdin"))
	got, err := readInput(generateCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = readInput(generateCmd, []string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé", truncate("héllo", 2))
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
