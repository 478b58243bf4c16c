package alignment

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenQuestions() []Question {
	qs := make([]Question, 10)
	for i := range qs {
		qs[i] = Question{ID: fmt.Sprintf("q%d", i+1), Scale: Likert}
	}
	return qs
}

func answersOf(values ...int) []Answer {
	out := make([]Answer, len(values))
	for i, v := range values {
		out[i] = Answer{QuestionID: fmt.Sprintf("q%d", i+1), Value: v}
	}
	return out
}

func subjectOf(id string, values ...int) Subject {
	s := Subject{ID: id, Name: id}
	for i, v := range values {
		s.Positions = append(s.Positions, Position{QuestionID: fmt.Sprintf("q%d", i+1), Value: v})
	}
	return s
}

var respondent = []int{4, 4, 3, 3, 2, 4, 3, 4, 3, 4}

func sampleSubjects() []Subject {
	return []Subject{
		subjectOf("jane-smith", 5, 5, 4, 2, 1, 5, 4, 5, 4, 4),
		subjectOf("john-doe", 1, 2, 2, 5, 4, 2, 1, 1, 1, 2),
		subjectOf("emily-johnson", 4, 4, 3, 3, 2, 4, 3, 4, 3, 5),
		subjectOf("michael-williams", 3, 4, 3, 3, 3, 4, 2, 3, 3, 3),
		subjectOf("sarah-brown", 2, 1, 2, 5, 4, 3, 1, 2, 1, 3),
	}
}

func TestScore_JaneSmithScenario(t *testing.T) {
	results, err := Score(answersOf(respondent...), tenQuestions(), sampleSubjects()[:1])
	require.NoError(t, err)
	require.Len(t, results, 1)

	// total difference 9 of 40 -> 77.5 rounds half away from zero
	assert.Equal(t, 78, results[0].Percentage)
	assert.Equal(t, 10, results[0].Compared)
}

func TestScore_RanksSampleData(t *testing.T) {
	results, err := Score(answersOf(respondent...), tenQuestions(), sampleSubjects())
	require.NoError(t, err)

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = fmt.Sprintf("%s=%d", r.SubjectID, r.Percentage)
	}
	assert.Equal(t, []string{
		"emily-johnson=98",
		"michael-williams=88",
		"jane-smith=78",
		"sarah-brown=55",
		"john-doe=48",
	}, got)
}

func TestScore_IdenticalAndMirror(t *testing.T) {
	answers := answersOf(respondent...)
	mirrored := make([]int, len(respondent))
	for i, v := range respondent {
		mirrored[i] = Mirror(Likert, v)
	}

	results, err := Score(answers, tenQuestions(), []Subject{
		subjectOf("twin", respondent...),
		subjectOf("mirror", mirrored...),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "twin", results[0].SubjectID)
	assert.Equal(t, 100, results[0].Percentage)
	assert.Equal(t, "mirror", results[1].SubjectID)
	// neutral answers mirror onto themselves: 12 of 40 apart
	assert.Equal(t, 70, results[1].Percentage)
}

func TestScore_MirrorWithoutNeutralIsZero(t *testing.T) {
	values := []int{1, 5, 1, 5, 1, 5, 1, 5, 1, 5}
	mirrored := make([]int, len(values))
	for i, v := range values {
		mirrored[i] = Mirror(Likert, v)
	}

	results, err := Score(answersOf(values...), tenQuestions(), []Subject{subjectOf("mirror", mirrored...)})
	require.NoError(t, err)
	assert.Equal(t, 0, results[0].Percentage)
}

func TestScore_MinimumAgainstMaximum(t *testing.T) {
	results, err := Score(
		answersOf(1, 1, 1, 1, 1, 1, 1, 1, 1, 1),
		tenQuestions(),
		[]Subject{subjectOf("far", 5, 5, 5, 5, 5, 5, 5, 5, 5, 5)},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, results[0].Percentage)
}

func TestScore_MissingAnswerIsMidpoint(t *testing.T) {
	questions := tenQuestions()
	subjects := sampleSubjects()

	partial := answersOf(respondent...)
	partial = append(partial[:4], partial[5:]...) // drop q5

	explicit := answersOf(respondent...)
	explicit[4].Value = Likert.Midpoint()

	got, err := Score(partial, questions, subjects)
	require.NoError(t, err)
	want, err := Score(explicit, questions, subjects)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial answers scored differently (-want +got):\n%s", diff)
	}
}

func TestScore_EmptyAnswersScoreAgainstNeutral(t *testing.T) {
	results, err := Score(nil, tenQuestions(), []Subject{subjectOf("neutral", 3, 3, 3, 3, 3, 3, 3, 3, 3, 3)})
	require.NoError(t, err)
	assert.Equal(t, 100, results[0].Percentage)
}

func TestScore_Deterministic(t *testing.T) {
	answers := answersOf(respondent...)
	first, err := Score(answers, tenQuestions(), sampleSubjects())
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := Score(answers, tenQuestions(), sampleSubjects())
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestScore_TiesKeepInputOrder(t *testing.T) {
	subjects := []Subject{
		subjectOf("c", 5, 5, 5, 5, 5, 5, 5, 5, 5, 5),
		subjectOf("b", respondent...),
		subjectOf("a", respondent...),
		subjectOf("z", respondent...),
	}

	results, err := Score(answersOf(respondent...), tenQuestions(), subjects)
	require.NoError(t, err)

	order := []string{results[0].SubjectID, results[1].SubjectID, results[2].SubjectID, results[3].SubjectID}
	assert.Equal(t, []string{"b", "a", "z", "c"}, order)
}

func TestScore_MissingPositionLeavesDenominator(t *testing.T) {
	partial := Subject{ID: "partial", Positions: []Position{
		{QuestionID: "q1", Value: 4},
		{QuestionID: "q2", Value: 2},
	}}

	results, err := Score(answersOf(respondent...), tenQuestions(), []Subject{partial})
	require.NoError(t, err)

	// |4-4| + |4-2| = 2 of a possible 8
	assert.Equal(t, 75, results[0].Percentage)
	assert.Equal(t, 2, results[0].Compared)
}

func TestScore_InvalidAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []Answer
		reason  string
	}{
		{"above scale", []Answer{{QuestionID: "q1", Value: 6}}, "value outside scale"},
		{"below scale", []Answer{{QuestionID: "q3", Value: 0}}, "value outside scale"},
		{"unknown question", []Answer{{QuestionID: "q42", Value: 3}}, "unknown question"},
		{"duplicate", []Answer{{QuestionID: "q2", Value: 3}, {QuestionID: "q2", Value: 4}}, "duplicate answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(tt.answers, tenQuestions(), sampleSubjects())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAnswer))

			var invalid *InvalidAnswerError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.reason, invalid.Reason)

			assert.ErrorIs(t, ValidateAnswers(tt.answers, tenQuestions()), ErrInvalidAnswer)
		})
	}
}

func TestValidateAnswers_AcceptsPartialSets(t *testing.T) {
	assert.NoError(t, ValidateAnswers(nil, tenQuestions()))
	assert.NoError(t, ValidateAnswers([]Answer{{QuestionID: "q4", Value: 1}}, tenQuestions()))
}

func TestScore_InsufficientData(t *testing.T) {
	subjects := append(sampleSubjects(), Subject{ID: "ghost"})

	_, err := Score(answersOf(respondent...), tenQuestions(), subjects)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "ghost", insufficient.SubjectID)
}

func TestScore_SkipInsufficient(t *testing.T) {
	subjects := append([]Subject{{ID: "ghost"}}, sampleSubjects()...)

	results, err := NewScorer(WithSkipInsufficient()).Score(answersOf(respondent...), tenQuestions(), subjects)
	require.NoError(t, err)
	assert.Len(t, results, 5)
	for _, r := range results {
		assert.NotEqual(t, "ghost", r.SubjectID)
	}
}

func TestScore_InvalidPosition(t *testing.T) {
	bad := subjectOf("bad", 5, 5, 5, 5, 5, 5, 5, 5, 5, 7)

	_, err := Score(answersOf(respondent...), tenQuestions(), []Subject{bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	var invalid *InvalidPositionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "bad", invalid.SubjectID)
	assert.Equal(t, "q10", invalid.QuestionID)
}

func TestScore_InvalidQuestions(t *testing.T) {
	_, err := Score(nil, []Question{{ID: "q1", Scale: Scale{Min: 3, Max: 3}}}, nil)
	assert.True(t, errors.Is(err, ErrInvalidQuestion))

	_, err = Score(nil, []Question{{ID: "q1", Scale: Likert}, {ID: "q1", Scale: Likert}}, nil)
	assert.True(t, errors.Is(err, ErrInvalidQuestion))
}

func TestScore_CustomScaleWidth(t *testing.T) {
	questions := []Question{
		{ID: "a", Scale: Scale{Min: 0, Max: 10}},
		{ID: "b", Scale: Scale{Min: 1, Max: 3}},
	}
	subject := Subject{ID: "s", Positions: []Position{{QuestionID: "a", Value: 10}, {QuestionID: "b", Value: 1}}}

	// a unanswered -> midpoint 5; |5-10| + |3-1| = 7 of 12 -> 41.67
	results, err := Score([]Answer{{QuestionID: "b", Value: 3}}, questions, []Subject{subject})
	require.NoError(t, err)
	assert.Equal(t, 42, results[0].Percentage)
}

func TestScore_Categories(t *testing.T) {
	questions := []Question{
		{ID: "q1", Category: "economic", Scale: Likert},
		{ID: "q2", Category: "economic", Scale: Likert},
		{ID: "q3", Category: "social", Scale: Likert},
		{ID: "q4", Scale: Likert},
	}
	answers := []Answer{{"q1", 5}, {"q2", 5}, {"q3", 1}, {"q4", 3}}
	subject := Subject{ID: "s", Positions: []Position{{"q1", 5}, {"q2", 4}, {"q3", 5}, {"q4", 3}}}

	results, err := NewScorer(WithCategories()).Score(answers, questions, []Subject{subject})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"economic": 88, "social": 0}, results[0].Categories)
	// 5 of 16
	assert.Equal(t, 69, results[0].Percentage)

	plain, err := Score(answers, questions, []Subject{subject})
	require.NoError(t, err)
	assert.Nil(t, plain[0].Categories)
}

func TestScore_ConcurrentCallers(t *testing.T) {
	scorer := NewScorer()
	questions := tenQuestions()
	subjects := sampleSubjects()
	want, err := scorer.Score(answersOf(respondent...), questions, subjects)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := scorer.Score(answersOf(respondent...), questions, subjects)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestScale_Midpoint(t *testing.T) {
	tests := []struct {
		scale Scale
		want  int
	}{
		{Likert, 3},
		{Scale{Min: 1, Max: 4}, 3},
		{Scale{Min: 0, Max: 3}, 2},
		{Scale{Min: 1, Max: 7}, 4},
		{Scale{Min: -2, Max: 1}, -1},
		{Scale{Min: -2, Max: 2}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.scale.Midpoint(), "scale %d..%d", tt.scale.Min, tt.scale.Max)
		assert.True(t, tt.scale.Contains(tt.scale.Midpoint()))
	}
}
