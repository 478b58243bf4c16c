package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"govtrack/internal/alignment"
	"govtrack/internal/cache"
	"govtrack/internal/dataset"
	"govtrack/internal/model"
	"govtrack/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultTopMatches = 5

// QuizService runs the alignment quiz: quiz definitions, representative
// stances and scoring of submissions
type QuizService struct {
	quizzes     repository.QuizRepo
	stances     repository.StanceRepo
	reps        repository.RepresentativeRepo
	results     repository.ResultRepo
	quizCache   cache.QuizCache
	matchCache  cache.MatchCache
	stats       cache.MatchStats
	scorer      *alignment.Scorer
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewQuizService creates a new quiz service
func NewQuizService(
	quizzes repository.QuizRepo,
	stances repository.StanceRepo,
	reps repository.RepresentativeRepo,
	results repository.ResultRepo,
	quizCache cache.QuizCache,
	matchCache cache.MatchCache,
	stats cache.MatchStats,
	scorer *alignment.Scorer,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		quizzes:    quizzes,
		stances:    stances,
		reps:       reps,
		results:    results,
		quizCache:  quizCache,
		matchCache: matchCache,
		stats:      stats,
		scorer:     scorer,
		logger:     logger,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *QuizService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// List returns every quiz
func (s *QuizService) List(ctx context.Context) ([]*model.Quiz, error) {
	return s.quizzes.List(ctx)
}

// Get returns a quiz, reading through the quiz cache
func (s *QuizService) Get(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.quizCache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("quiz cache read failed", zap.String("quizId", id), zap.Error(err))
	}
	if quiz != nil {
		return quiz, nil
	}

	quiz, err = s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrNotFound
	}
	if err := s.quizCache.Set(ctx, quiz); err != nil {
		s.logger.Warn("quiz cache write failed", zap.String("quizId", id), zap.Error(err))
	}
	return quiz, nil
}

// Create stores a new quiz after checking its questions
func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) (string, error) {
	normalizeQuestions(quiz)
	if err := alignment.ValidateQuestions(questionsOf(quiz)); err != nil {
		return "", err
	}
	return s.quizzes.Create(ctx, quiz)
}

// Update replaces a quiz; cached rankings for it are invalidated
func (s *QuizService) Update(ctx context.Context, quiz *model.Quiz) error {
	existing, err := s.quizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	normalizeQuestions(quiz)
	if err := alignment.ValidateQuestions(questionsOf(quiz)); err != nil {
		return err
	}
	quiz.CreatedAt = existing.CreatedAt
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return storeErr(err)
	}
	s.invalidate(ctx, quiz.ID)
	return nil
}

// Delete removes a quiz with its stances and statistics
func (s *QuizService) Delete(ctx context.Context, id string) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	if err := s.stances.DeleteByQuiz(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if err := s.stats.Reset(ctx, id); err != nil {
		s.logger.Warn("match stats reset failed", zap.String("quizId", id), zap.Error(err))
	}
	return nil
}

// Stances returns the recorded positions on a quiz
func (s *QuizService) Stances(ctx context.Context, quizID string) ([]*model.Stance, error) {
	return s.stances.GetByQuiz(ctx, quizID)
}

// SetStances replaces a representative's positions on a quiz. Values outside
// a question's scale are rejected, never clamped.
func (s *QuizService) SetStances(ctx context.Context, quizID, repID string, stances []model.Stance) error {
	quiz, err := s.Get(ctx, quizID)
	if err != nil {
		return err
	}
	rep, err := s.reps.GetByID(ctx, repID)
	if err != nil {
		return err
	}
	if rep == nil {
		return ErrNotFound
	}

	subject := alignment.Subject{ID: repID, Name: rep.Name}
	for _, st := range stances {
		subject.Positions = append(subject.Positions, alignment.Position{QuestionID: st.QuestionKey, Value: st.Value})
	}
	if err := alignment.ValidateSubjects(questionsOf(quiz), []alignment.Subject{subject}); err != nil {
		return err
	}

	// Rankings are dropped even when a write below fails part way
	defer s.invalidate(ctx, quizID)

	keep := make([]string, len(stances))
	for i := range stances {
		st := stances[i]
		st.QuizID = quizID
		st.RepresentativeID = repID
		if err := s.stances.Upsert(ctx, &st); err != nil {
			return fmt.Errorf("store stance %s: %w", st.QuestionKey, err)
		}
		keep[i] = st.QuestionKey
	}
	return s.stances.DeleteExcept(ctx, quizID, repID, keep)
}

// Submit scores a respondent's answers against every representative with
// stances on the quiz. The result is stored when userID is set.
func (s *QuizService) Submit(ctx context.Context, userID, quizID string, responses []model.QuizResponse) (*model.QuizResult, error) {
	var (
		quiz    *model.Quiz
		stances []*model.Stance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quiz, err = s.Get(gctx, quizID)
		return err
	})
	g.Go(func() error {
		var err error
		stances, err = s.stances.GetByQuiz(gctx, quizID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		UserID:    userID,
		QuizID:    quizID,
		Responses: responses,
		TakenAt:   time.Now(),
	}

	questions := questionsOf(quiz)
	answers := answersOf(responses)
	// A cache hit must not skip answer validation
	if err := alignment.ValidateAnswers(answers, questions); err != nil {
		return nil, err
	}

	alignments, err := s.matchCache.Get(ctx, quizID, responses)
	if err != nil {
		s.logger.Warn("match cache read failed", zap.String("quizId", quizID), zap.Error(err))
	}
	if alignments != nil {
		result.Alignments = alignments
		result.Cached = true
	} else {
		alignments, err = s.score(ctx, quizID, questions, stances, answers)
		if err != nil {
			return nil, err
		}
		result.Alignments = alignments
		if err := s.matchCache.Set(ctx, quizID, responses, alignments); err != nil {
			s.logger.Warn("match cache write failed", zap.String("quizId", quizID), zap.Error(err))
		}
	}

	if userID != "" {
		if _, err := s.results.Create(ctx, result); err != nil {
			return nil, fmt.Errorf("save result: %w", err)
		}
	}

	s.recordTopMatch(ctx, quizID, result)

	s.logger.Info("quiz scored",
		zap.String("quizId", quizID),
		zap.String("userId", userID),
		zap.Int("responses", len(responses)),
		zap.Int("subjects", len(result.Alignments)),
		zap.Bool("cached", result.Cached))
	return result, nil
}

func (s *QuizService) score(ctx context.Context, quizID string, questions []alignment.Question, stances []*model.Stance, answers []alignment.Answer) ([]model.Alignment, error) {
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	// Stances arrive sorted by representative, which fixes the tie order
	var repIDs []string
	positions := make(map[string][]alignment.Position)
	for _, st := range stances {
		if _, ok := known[st.QuestionKey]; !ok {
			s.logger.Debug("ignoring stance on removed question",
				zap.String("quizId", quizID),
				zap.String("representativeId", st.RepresentativeID),
				zap.String("questionKey", st.QuestionKey))
			continue
		}
		if _, seen := positions[st.RepresentativeID]; !seen {
			repIDs = append(repIDs, st.RepresentativeID)
		}
		positions[st.RepresentativeID] = append(positions[st.RepresentativeID],
			alignment.Position{QuestionID: st.QuestionKey, Value: st.Value})
	}

	reps, err := s.reps.GetByIDs(ctx, repIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Representative, len(reps))
	for _, r := range reps {
		byID[r.ID] = r
	}

	subjects := make([]alignment.Subject, 0, len(repIDs))
	for _, id := range repIDs {
		rep, ok := byID[id]
		if !ok {
			// stances outlived their representative
			continue
		}
		subjects = append(subjects, alignment.Subject{ID: id, Name: rep.Name, Positions: positions[id]})
	}

	results, err := s.scorer.Score(answers, questions, subjects)
	if err != nil {
		return nil, err
	}

	alignments := make([]model.Alignment, len(results))
	for i, r := range results {
		rep := byID[r.SubjectID]
		alignments[i] = model.Alignment{
			RepresentativeID: r.SubjectID,
			Name:             rep.Name,
			Party:            rep.Party,
			Title:            rep.Title,
			Percentage:       r.Percentage,
			Compared:         r.Compared,
			Categories:       r.Categories,
		}
	}
	return alignments, nil
}

func (s *QuizService) recordTopMatch(ctx context.Context, quizID string, result *model.QuizResult) {
	top := result.TopMatch()
	if top == nil {
		return
	}
	if err := s.stats.Increment(ctx, quizID, top.RepresentativeID); err != nil {
		s.logger.Warn("match stats update failed", zap.String("quizId", quizID), zap.Error(err))
		return
	}
	if s.broadcaster == nil {
		return
	}
	board, err := s.TopMatches(ctx, quizID, defaultTopMatches)
	if err != nil {
		s.logger.Warn("match stats read failed", zap.String("quizId", quizID), zap.Error(err))
		return
	}
	s.broadcaster.BroadcastToQuiz(quizID, MsgTopMatches, board)
}

// TopMatches returns the representatives most often ranked first
func (s *QuizService) TopMatches(ctx context.Context, quizID string, limit int) ([]model.MatchCount, error) {
	if limit <= 0 {
		limit = defaultTopMatches
	}
	entries, err := s.stats.Top(ctx, quizID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.RepresentativeID
	}
	reps, err := s.reps.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(reps))
	for _, r := range reps {
		names[r.ID] = r.Name
	}

	board := make([]model.MatchCount, len(entries))
	for i, e := range entries {
		board[i] = model.MatchCount{
			RepresentativeID: e.RepresentativeID,
			Name:             names[e.RepresentativeID],
			Count:            e.Count,
			Rank:             e.Rank,
		}
	}
	return board, nil
}

// Result returns a stored result owned by userID
func (s *QuizService) Result(ctx context.Context, userID, id string) (*model.QuizResult, error) {
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNotFound
	}
	if result.UserID != userID {
		return nil, ErrForbidden
	}
	return result, nil
}

// Results lists a user's stored results, newest first
func (s *QuizService) Results(ctx context.Context, userID string, limit int64) ([]*model.QuizResult, error) {
	return s.results.GetByUserID(ctx, userID, limit)
}

// ImportDataset stores a dataset's quiz, representatives and stances and
// returns the new quiz ID
func (s *QuizService) ImportDataset(ctx context.Context, ds *dataset.Dataset) (string, error) {
	quizID, err := s.Create(ctx, ds.ModelQuiz())
	if err != nil {
		return "", fmt.Errorf("create quiz: %w", err)
	}

	for _, subj := range ds.Subjects {
		repID, err := s.reps.Create(ctx, subj.ModelRepresentative())
		if err != nil {
			return "", fmt.Errorf("create representative %s: %w", subj.ID, err)
		}
		for _, q := range ds.Quiz.Questions {
			v, ok := subj.Stances[q.Key]
			if !ok {
				continue
			}
			st := &model.Stance{QuizID: quizID, RepresentativeID: repID, QuestionKey: q.Key, Value: v, Source: "dataset"}
			if err := s.stances.Upsert(ctx, st); err != nil {
				return "", fmt.Errorf("store stance %s/%s: %w", subj.ID, q.Key, err)
			}
		}
	}
	return quizID, nil
}

func (s *QuizService) invalidate(ctx context.Context, quizID string) {
	if err := s.quizCache.Delete(ctx, quizID); err != nil {
		s.logger.Warn("quiz cache delete failed", zap.String("quizId", quizID), zap.Error(err))
	}
	if err := s.matchCache.Invalidate(ctx, quizID); err != nil {
		s.logger.Warn("match cache invalidate failed", zap.String("quizId", quizID), zap.Error(err))
	}
}

// normalizeQuestions assigns missing keys and defaults to the Likert scale
func normalizeQuestions(quiz *model.Quiz) {
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.Key = strings.TrimSpace(q.Key)
		if q.Key == "" {
			q.Key = fmt.Sprintf("q%d", i+1)
		}
		if q.ScaleMin == 0 && q.ScaleMax == 0 {
			q.ScaleMin, q.ScaleMax = alignment.Likert.Min, alignment.Likert.Max
		}
	}
}

func answersOf(responses []model.QuizResponse) []alignment.Answer {
	answers := make([]alignment.Answer, len(responses))
	for i, r := range responses {
		answers[i] = alignment.Answer{QuestionID: r.QuestionKey, Value: r.Value}
	}
	return answers
}

func questionsOf(quiz *model.Quiz) []alignment.Question {
	out := make([]alignment.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		out[i] = alignment.Question{
			ID:       q.Key,
			Prompt:   q.Text,
			Category: q.Category,
			Scale:    alignment.Scale{Min: q.ScaleMin, Max: q.ScaleMax},
		}
	}
	return out
}
