package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"govtrack/internal/alignment"
	"govtrack/internal/dataset"
	"govtrack/internal/model"
	"govtrack/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type quizFixture struct {
	svc         *QuizService
	quizzes     *servicetest.QuizRepo
	stances     *servicetest.StanceRepo
	reps        *servicetest.RepresentativeRepo
	results     *servicetest.ResultRepo
	matchCache  *servicetest.MatchCache
	stats       *servicetest.MatchStats
	broadcaster *servicetest.Broadcaster
	quizID      string
	repIDs      map[string]string // dataset subject id -> stored id
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	f := &quizFixture{
		quizzes:     servicetest.NewQuizRepo(),
		stances:     &servicetest.StanceRepo{},
		reps:        servicetest.NewRepresentativeRepo(),
		results:     &servicetest.ResultRepo{},
		matchCache:  servicetest.NewMatchCache(),
		stats:       servicetest.NewMatchStats(),
		broadcaster: &servicetest.Broadcaster{},
		repIDs:      map[string]string{},
	}
	f.svc = NewQuizService(f.quizzes, f.stances, f.reps, f.results,
		servicetest.NewQuizCache(), f.matchCache, f.stats,
		alignment.NewScorer(alignment.WithCategories()), zap.NewNop())
	f.svc.SetBroadcaster(f.broadcaster)

	ds := dataset.Sample()
	quizID, err := f.svc.ImportDataset(context.Background(), ds)
	require.NoError(t, err)
	f.quizID = quizID

	for id, rep := range f.reps.Reps {
		for _, subj := range ds.Subjects {
			if subj.Name == rep.Name {
				f.repIDs[subj.ID] = id
			}
		}
	}
	require.Len(t, f.repIDs, len(ds.Subjects))
	return f
}

func responsesOf(values ...int) []model.QuizResponse {
	out := make([]model.QuizResponse, len(values))
	for i, v := range values {
		out[i] = model.QuizResponse{QuestionKey: fmt.Sprintf("q%d", i+1), Value: v}
	}
	return out
}

var sampleRespondent = []int{4, 4, 3, 3, 2, 4, 3, 4, 3, 4}

func percentages(alignments []model.Alignment) map[string]int {
	out := make(map[string]int, len(alignments))
	for _, a := range alignments {
		out[a.Name] = a.Percentage
	}
	return out
}

func TestQuizService_SubmitRanksRepresentatives(t *testing.T) {
	f := newQuizFixture(t)

	result, err := f.svc.Submit(context.Background(), "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	require.Len(t, result.Alignments, 5)

	names := make([]string, len(result.Alignments))
	for i, a := range result.Alignments {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"Emily Johnson", "Michael Williams", "Jane Smith", "Sarah Brown", "John Doe"}, names)
	assert.Equal(t, map[string]int{
		"Emily Johnson":    98,
		"Michael Williams": 88,
		"Jane Smith":       78,
		"Sarah Brown":      55,
		"John Doe":         48,
	}, percentages(result.Alignments))

	top := result.TopMatch()
	require.NotNil(t, top)
	assert.Equal(t, "Democratic", top.Party)
	assert.Equal(t, "Governor", top.Title)
	assert.Equal(t, 10, top.Compared)
	assert.NotEmpty(t, top.Categories)
	assert.False(t, result.Cached)
}

func TestQuizService_SubmitPersistsOnlyForUsers(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	assert.Empty(t, f.results.Results)

	result, err := f.svc.Submit(ctx, "user-1", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	require.Len(t, f.results.Results, 1)
	assert.NotEmpty(t, result.ID)

	got, err := f.svc.Result(ctx, "user-1", result.ID)
	require.NoError(t, err)
	assert.Equal(t, f.quizID, got.QuizID)

	_, err = f.svc.Result(ctx, "user-2", result.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Result(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := f.svc.Results(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestQuizService_SubmitUsesMatchCache(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)

	// same answers in a different order
	reordered := responsesOf(sampleRespondent...)
	reordered[0], reordered[9] = reordered[9], reordered[0]
	second, err := f.svc.Submit(ctx, "", f.quizID, reordered)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.Alignments, second.Alignments)
}

func TestQuizService_CachedAnswersAreStillValidated(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "", f.quizID, []model.QuizResponse{
		{QuestionKey: "q1", Value: 4},
		{QuestionKey: "q2", Value: 3},
	})
	require.NoError(t, err)
	require.Len(t, f.matchCache.Entries, 1)

	// the key spells out the answers scored above
	_, err = f.svc.Submit(ctx, "", f.quizID, []model.QuizResponse{{QuestionKey: "q1=4;q2", Value: 3}})
	assert.ErrorIs(t, err, alignment.ErrInvalidAnswer)

	_, err = f.svc.Submit(ctx, "", f.quizID, []model.QuizResponse{
		{QuestionKey: "q1", Value: 4},
		{QuestionKey: "q2", Value: 3},
		{QuestionKey: "q2", Value: 3},
	})
	assert.ErrorIs(t, err, alignment.ErrInvalidAnswer)
	assert.Len(t, f.matchCache.Entries, 1)
}

func TestQuizService_RepresentativeChangesInvalidateRankings(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	reps := NewRepresentativeService(f.reps, servicetest.NewPolicyRepo(), f.stances, f.matchCache, f.stats, zap.NewNop())
	emily := f.repIDs["emily-johnson"]

	first, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	require.Equal(t, emily, first.TopMatch().RepresentativeID)

	rep, err := reps.Get(ctx, emily)
	require.NoError(t, err)
	rep.Name = "Emily Johnson-Reyes"
	require.NoError(t, reps.Update(ctx, rep))

	renamed, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	assert.False(t, renamed.Cached)
	assert.Equal(t, "Emily Johnson-Reyes", renamed.TopMatch().Name)
	assert.Equal(t, 2, f.stats.Counts[f.quizID][emily])

	require.NoError(t, reps.Delete(ctx, emily))
	_, counted := f.stats.Counts[f.quizID][emily]
	assert.False(t, counted)

	after, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	assert.False(t, after.Cached)
	require.Len(t, after.Alignments, 4)
	for _, a := range after.Alignments {
		assert.NotEqual(t, emily, a.RepresentativeID)
	}
	assert.Equal(t, "Michael Williams", after.TopMatch().Name)

	board, err := f.svc.TopMatches(ctx, f.quizID, 5)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, f.repIDs["michael-williams"], board[0].RepresentativeID)
}

func TestQuizService_SetStancesFailureDropsRankings(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	repID := f.repIDs["jane-smith"]

	_, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	require.NotEmpty(t, f.matchCache.Entries)

	f.stances.FailKey = "q2"
	err = f.svc.SetStances(ctx, f.quizID, repID, []model.Stance{
		{QuestionKey: "q1", Value: 1},
		{QuestionKey: "q2", Value: 1},
	})
	assert.ErrorIs(t, err, servicetest.ErrUpsertFailed)
	assert.Empty(t, f.matchCache.Entries)

	// nothing was deleted, only q1 was rewritten
	stances, err := f.stances.GetByRepresentative(ctx, repID)
	require.NoError(t, err)
	require.Len(t, stances, 10)
	for _, st := range stances {
		if st.QuestionKey == "q1" {
			assert.Equal(t, 1, st.Value)
		}
	}
}

func TestQuizService_SetStancesInvalidatesRankings(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)

	var twin []model.Stance
	for i, v := range sampleRespondent {
		twin = append(twin, model.Stance{QuestionKey: fmt.Sprintf("q%d", i+1), Value: v})
	}
	require.NoError(t, f.svc.SetStances(ctx, f.quizID, f.repIDs["john-doe"], twin))

	result, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, "John Doe", result.Alignments[0].Name)
	assert.Equal(t, 100, result.Alignments[0].Percentage)
}

func TestQuizService_SetStancesReplacesPreviousPositions(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	repID := f.repIDs["jane-smith"]

	require.NoError(t, f.svc.SetStances(ctx, f.quizID, repID, []model.Stance{
		{QuestionKey: "q1", Value: 3},
		{QuestionKey: "q2", Value: 3},
	}))

	stances, err := f.stances.GetByRepresentative(ctx, repID)
	require.NoError(t, err)
	require.Len(t, stances, 2)

	result, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)
	for _, a := range result.Alignments {
		if a.RepresentativeID == repID {
			// |4-3| + |4-3| out of 8
			assert.Equal(t, 2, a.Compared)
			assert.Equal(t, 75, a.Percentage)
		}
	}
}

func TestQuizService_SetStancesRejectsOutOfScale(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	repID := f.repIDs["jane-smith"]

	err := f.svc.SetStances(ctx, f.quizID, repID, []model.Stance{{QuestionKey: "q1", Value: 6}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, alignment.ErrInvalidPosition))

	err = f.svc.SetStances(ctx, f.quizID, repID, []model.Stance{{QuestionKey: "q99", Value: 3}})
	assert.ErrorIs(t, err, alignment.ErrInvalidPosition)

	stances, err := f.stances.GetByRepresentative(ctx, repID)
	require.NoError(t, err)
	assert.Len(t, stances, 10)

	err = f.svc.SetStances(ctx, f.quizID, "rep-missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizService_SubmitErrors(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "", f.quizID, []model.QuizResponse{{QuestionKey: "q1", Value: 9}})
	assert.ErrorIs(t, err, alignment.ErrInvalidAnswer)

	_, err = f.svc.Submit(ctx, "", f.quizID, []model.QuizResponse{{QuestionKey: "q42", Value: 3}})
	assert.ErrorIs(t, err, alignment.ErrInvalidAnswer)

	_, err = f.svc.Submit(ctx, "", "quiz-missing", responsesOf(sampleRespondent...))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.matchCache.Entries)
}

func TestQuizService_SubmitIgnoresStancesOnRemovedQuestions(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := f.svc.Get(ctx, f.quizID)
	require.NoError(t, err)
	quiz.Questions = quiz.Questions[:9]
	require.NoError(t, f.svc.Update(ctx, quiz))

	result, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent[:9]...))
	require.NoError(t, err)
	for _, a := range result.Alignments {
		assert.Equal(t, 9, a.Compared, a.Name)
	}
}

func TestQuizService_TopMatchesAndBroadcast(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
		require.NoError(t, err)
	}
	// a respondent who agrees with John Doe on everything
	_, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(1, 2, 2, 5, 4, 2, 1, 1, 1, 2))
	require.NoError(t, err)

	board, err := f.svc.TopMatches(ctx, f.quizID, 5)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, model.MatchCount{RepresentativeID: f.repIDs["emily-johnson"], Name: "Emily Johnson", Count: 2, Rank: 1}, board[0])
	assert.Equal(t, "John Doe", board[1].Name)

	require.Len(t, f.broadcaster.Sent, 3)
	last := f.broadcaster.Sent[2]
	assert.Equal(t, f.quizID, last.QuizID)
	assert.Equal(t, MsgTopMatches, last.MsgType)
	assert.Equal(t, board, last.Payload)
}

func TestQuizService_GetReadsThroughCache(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	before := f.quizzes.Gets

	_, err := f.svc.Get(ctx, f.quizID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, f.quizID)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.quizzes.Gets)

	_, err = f.svc.Get(ctx, "quiz-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizService_CreateValidatesQuestions(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &model.Quiz{Title: "dup", Questions: []model.QuizQuestion{
		{Key: "a", Text: "one"},
		{Key: "a", Text: "two"},
	}})
	assert.ErrorIs(t, err, alignment.ErrInvalidQuestion)

	_, err = f.svc.Create(ctx, &model.Quiz{Title: "flat", Questions: []model.QuizQuestion{
		{Key: "a", ScaleMin: 3, ScaleMax: 3},
	}})
	assert.ErrorIs(t, err, alignment.ErrInvalidQuestion)

	quiz := &model.Quiz{Title: "defaults", Questions: []model.QuizQuestion{{Text: "first"}, {Text: "second"}}}
	_, err = f.svc.Create(ctx, quiz)
	require.NoError(t, err)
	assert.Equal(t, "q1", quiz.Questions[0].Key)
	assert.Equal(t, "q2", quiz.Questions[1].Key)
	assert.Equal(t, 1, quiz.Questions[0].ScaleMin)
	assert.Equal(t, 5, quiz.Questions[0].ScaleMax)
}

func TestQuizService_DeleteRemovesStancesAndStats(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "", f.quizID, responsesOf(sampleRespondent...))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.quizID))

	stances, err := f.svc.Stances(ctx, f.quizID)
	require.NoError(t, err)
	assert.Empty(t, stances)
	assert.Empty(t, f.stats.Counts[f.quizID])

	_, err = f.svc.Get(ctx, f.quizID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.quizID), ErrNotFound)
}
