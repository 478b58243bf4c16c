package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"govtrack/internal/alignment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScore_Table(t *testing.T) {
	out, err := execute(t, "score", "--answers", "4,4,3,3,2,4,3,4,3,4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "ALIGNMENT")
	assert.Contains(t, lines[1], "Emily Johnson")
	assert.Contains(t, lines[1], "98%")
	assert.Contains(t, lines[5], "John Doe")
	assert.Contains(t, lines[5], "48%")
}

func TestScore_JSON(t *testing.T) {
	out, err := execute(t, "score", "--answers", "4,4,3,3,2,4,3,4,3,4", "--json", "--categories")
	require.NoError(t, err)

	var results []alignment.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 5)
	assert.Equal(t, "jane-smith", results[2].SubjectID)
	assert.Equal(t, 78, results[2].Percentage)
	assert.NotEmpty(t, results[0].Categories)
}

func TestScore_SkippedAnswersUseMidpoint(t *testing.T) {
	skipped, err := execute(t, "score", "--answers", "4,,3", "--json")
	require.NoError(t, err)
	explicit, err := execute(t, "score", "--answers", "4,3,3,3,3,3,3,3,3,3", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, explicit, skipped)
}

func TestScore_Errors(t *testing.T) {
	_, err := execute(t, "score", "--answers", "4,x")
	assert.ErrorContains(t, err, "not a number")

	_, err = execute(t, "score", "--answers", "9")
	assert.ErrorIs(t, err, alignment.ErrInvalidAnswer)

	_, err = execute(t, "score", "--answers", "1,1,1,1,1,1,1,1,1,1,1")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "10 questions, 5 subjects")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
quiz:
  title: Broken
  scale: {min: 1, max: 5}
  questions:
    - key: q1
      text: One
subjects:
  - id: a
    name: A
    stances: {q1: 7}
`), 0o644))
	_, err = execute(t, "validate", "--data", bad)
	assert.ErrorIs(t, err, alignment.ErrInvalidPosition)
}
