package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/filter"
)

const cardsJSON = `[
	{"code":"A","name":"Hawkeye","name_de":"Falkenauge","type":"ally","faction":"basic","cost":3,"traits":["Avenger"]},
	{"code":"B","name":"Black Widow","type":"ally","faction":"justice","cost":3,"traits":["Avenger","Spy"]},
	{"code":"C","name":"Maria Hill","type":"ally","faction":"leadership","cost":2,"traits":["Spy"]}
]`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards.json"), []byte(cardsJSON), 0o644))
	cfg := fmt.Sprintf(`title: Cardle
catalog:
  path: %[1]s/cards.json
storage:
  backend: fs
  dir: %[1]s/progress
logging:
  mode: development
  level: error
game:
  search_limit: 10
  min_search_length: 1
  share_base_url: https://cardle.example/
  find_day_window: 30
preferences:
  path: %[1]s/prefs.yaml
`, dir)
	path := filepath.Join(dir, "cardle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestGuessPersistsAcrossRuns(t *testing.T) {
	cfg := writeConfig(t)

	got, err := run(t, cfg, "guess", "--day", "2024-06-01", "A")
	require.NoError(t, err)
	assert.Contains(t, got, "1 guesses so far")

	got, err = run(t, cfg, "guess", "--day", "2024-06-01", "B")
	require.NoError(t, err)
	assert.Contains(t, got, "solved in 2 guesses")

	got, err = run(t, cfg, "status", "--day", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, got, "classic 2024-06-01: solved, 2 guesses")
	assert.Contains(t, got, "answer: Black Widow (B)")

	got, err = run(t, cfg, "days")
	require.NoError(t, err)
	assert.Contains(t, got, "2024-06-01\tsolved\t2")

	got, err = run(t, cfg, "share", "--day", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, got, "Cardle 2024-06-01 in 2 Guesses")
	assert.Contains(t, got, "https://cardle.example/#/viewer?day=2024-06-01&code=B&guesses=A,B")

	got, err = run(t, cfg, "modes")
	require.NoError(t, err)
	assert.Contains(t, got, "classic\tdata\t1 days\t1 solved")

	_, err = run(t, cfg, "reset", "--day", "2024-06-01")
	require.NoError(t, err)
	got, err = run(t, cfg, "status", "--day", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, got, "unstarted, 0 guesses")
}

func TestExpertModeIsSeparate(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, cfg, "--mode", "expert", "guess", "--day", "2024-06-01", "A")
	require.NoError(t, err)

	got, err := run(t, cfg, "status", "--day", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, got, "unstarted")

	_, err = os.Stat(filepath.Join(filepath.Dir(cfg), "progress", "expert_data.json"))
	assert.NoError(t, err)
}

func TestViewFindDayAndCards(t *testing.T) {
	cfg := writeConfig(t)

	got, err := run(t, cfg, "view", "https://cardle.example/#/viewer?day=2024-06-01&code=B&guesses=C,B")
	require.NoError(t, err)
	assert.Contains(t, got, "2024-06-01: Black Widow in 2 guesses")

	got, err = run(t, cfg, "find-day", "--day", "2024-06-01", "B")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01\n", got)

	got, err = run(t, cfg, "cards")
	require.NoError(t, err)
	assert.Contains(t, got, "Hawkeye")

	_, err = run(t, cfg, "view", "day=2024-06-01")
	assert.Error(t, err)
}

func TestPrefsSwitchLanguage(t *testing.T) {
	cfg := writeConfig(t)
	got, err := run(t, cfg, "prefs", "--german", "on")
	require.NoError(t, err)
	assert.Contains(t, got, "german=true")

	got, err = run(t, cfg, "search", "--day", "2024-06-01", "falk")
	require.NoError(t, err)
	assert.Equal(t, "A\tFalkenauge\n", got)
}

func TestBadConfig(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, cfg, "--mode", "hard", "status")
	assert.Error(t, err)
}

func TestParseCriterion(t *testing.T) {
	cases := map[string]filter.Criterion{
		"cost=3":               filter.Equal(domain.FieldCost, "3"),
		"name^S":               filter.FirstLetter("S"),
		"traits~Spy":           filter.Any(domain.FieldTraits, "Spy"),
		"traits==Spy, Avenger": filter.All(domain.FieldTraits, "Spy", "Avenger"),
	}
	for in, want := range cases {
		got, err := parseCriterion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseCriterion("colour=red")
	assert.Error(t, err)
	_, err = parseCriterion("cost")
	assert.Error(t, err)
}
