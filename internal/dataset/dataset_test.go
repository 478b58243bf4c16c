package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"govtrack/internal/alignment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	ds := Sample()

	assert.Len(t, ds.Questions(), 10)
	assert.Len(t, ds.AlignmentSubjects(), 5)

	quiz := ds.ModelQuiz()
	require.Len(t, quiz.Questions, 10)
	assert.Equal(t, 1, quiz.Questions[0].ScaleMin)
	assert.Equal(t, 5, quiz.Questions[0].ScaleMax)
	require.Len(t, quiz.Questions[0].Options, 5)
	assert.Equal(t, "Strongly Agree", quiz.Questions[0].Options[4].Label)
	assert.Equal(t, 5, quiz.Questions[0].Options[4].Value)
}

func TestSample_ScoresJaneSmith(t *testing.T) {
	ds := Sample()
	answers, err := ds.AnswersFromValues([]int{4, 4, 3, 3, 2, 4, 3, 4, 3, 4})
	require.NoError(t, err)

	results, err := alignment.Score(answers, ds.Questions(), ds.AlignmentSubjects())
	require.NoError(t, err)

	byID := map[string]int{}
	for _, r := range results {
		byID[r.SubjectID] = r.Percentage
	}
	assert.Equal(t, 78, byID["jane-smith"])
	assert.Equal(t, "emily-johnson", results[0].SubjectID)
}

func TestAnswersFromValues_ZeroSkips(t *testing.T) {
	ds := Sample()
	answers, err := ds.AnswersFromValues([]int{5, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []alignment.Answer{{QuestionID: "q1", Value: 5}, {QuestionID: "q3", Value: 1}}, answers)

	_, err = ds.AnswersFromValues(make([]int, 11))
	assert.Error(t, err)
}

func TestParse_RejectsOutOfRangeStance(t *testing.T) {
	_, err := Parse([]byte(`
quiz:
  title: t
  scale: {min: 1, max: 5}
  questions:
    - key: a
      text: A
subjects:
  - id: x
    name: X
    stances: {a: 9}
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, alignment.ErrInvalidPosition))
}

func TestParse_RejectsUnknownStanceKey(t *testing.T) {
	_, err := Parse([]byte(`
quiz:
  title: t
  scale: {min: 1, max: 5}
  questions:
    - key: a
      text: A
subjects:
  - id: x
    stances: {a: 3, b: 2}
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, alignment.ErrInvalidPosition))
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"no title":        "quiz: {questions: [{key: a}], scale: {min: 1, max: 5}}",
		"no questions":    "quiz: {title: t, scale: {min: 1, max: 5}}",
		"flat scale":      "quiz: {title: t, questions: [{key: a}], scale: {min: 2, max: 2}}",
		"label count":     "quiz: {title: t, questions: [{key: a}], scale: {min: 1, max: 3, labels: [x, y]}}",
		"duplicate subj":  "quiz: {title: t, questions: [{key: a}], scale: {min: 1, max: 5}}\nsubjects: [{id: s}, {id: s}]",
		"subject no id":   "quiz: {title: t, questions: [{key: a}], scale: {min: 1, max: 5}}\nsubjects: [{name: n}]",
		"not yaml at all": "quiz: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_QuestionScaleOverride(t *testing.T) {
	ds, err := Parse([]byte(`
quiz:
  title: t
  scale: {min: 1, max: 5}
  questions:
    - key: a
    - key: b
      scale: {min: 0, max: 10}
subjects:
  - id: s
    stances: {b: 10}
`))
	require.NoError(t, err)
	qs := ds.Questions()
	assert.Equal(t, alignment.Scale{Min: 0, Max: 10}, qs[1].Scale)

	// 0 is on b's scale so it is kept
	answers, err := ds.AnswersFromValues([]int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []alignment.Answer{{QuestionID: "b", Value: 0}}, answers)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.yaml")
	require.NoError(t, os.WriteFile(path, sampleYAML, 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Political Alignment Quiz", ds.Quiz.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
