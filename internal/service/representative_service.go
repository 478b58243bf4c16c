package service

import (
	"context"
	"fmt"
	"strings"

	"govtrack/internal/cache"
	"govtrack/internal/model"
	"govtrack/internal/repository"

	"go.uber.org/zap"
)

// RepresentativeService handles representative profiles and voting history
type RepresentativeService struct {
	reps       repository.RepresentativeRepo
	policies   repository.PolicyRepo
	stances    repository.StanceRepo
	matchCache cache.MatchCache
	stats      cache.MatchStats
	logger     *zap.Logger
}

// NewRepresentativeService creates a new representative service
func NewRepresentativeService(
	reps repository.RepresentativeRepo,
	policies repository.PolicyRepo,
	stances repository.StanceRepo,
	matchCache cache.MatchCache,
	stats cache.MatchStats,
	logger *zap.Logger,
) *RepresentativeService {
	return &RepresentativeService{
		reps:       reps,
		policies:   policies,
		stances:    stances,
		matchCache: matchCache,
		stats:      stats,
		logger:     logger,
	}
}

func (s *RepresentativeService) List(ctx context.Context, filter model.RepresentativeFilter) ([]*model.Representative, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	return s.reps.List(ctx, filter)
}

func (s *RepresentativeService) Get(ctx context.Context, id string) (*model.Representative, error) {
	rep, err := s.reps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrNotFound
	}
	return rep, nil
}

func (s *RepresentativeService) Create(ctx context.Context, rep *model.Representative) (string, error) {
	if err := validateRepresentative(rep); err != nil {
		return "", err
	}
	return s.reps.Create(ctx, rep)
}

// Update replaces a representative. Cached rankings that carry their name,
// party or title are dropped.
func (s *RepresentativeService) Update(ctx context.Context, rep *model.Representative) error {
	if err := validateRepresentative(rep); err != nil {
		return err
	}
	existing, err := s.Get(ctx, rep.ID)
	if err != nil {
		return err
	}
	quizIDs, err := s.quizzesOf(ctx, rep.ID)
	if err != nil {
		return err
	}

	rep.CreatedAt = existing.CreatedAt
	if err := s.reps.Update(ctx, rep); err != nil {
		return storeErr(err)
	}
	for _, quizID := range quizIDs {
		s.invalidate(ctx, quizID)
	}
	return nil
}

// Delete removes a representative together with their quiz stances, cached
// rankings and top-match counts
func (s *RepresentativeService) Delete(ctx context.Context, id string) error {
	quizIDs, err := s.quizzesOf(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reps.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	if err := s.stances.DeleteByRepresentative(ctx, "", id); err != nil {
		s.logger.Warn("failed to remove stances", zap.String("representativeId", id), zap.Error(err))
	}
	for _, quizID := range quizIDs {
		s.invalidate(ctx, quizID)
		if err := s.stats.Remove(ctx, quizID, id); err != nil {
			s.logger.Warn("match stats remove failed",
				zap.String("quizId", quizID), zap.String("representativeId", id), zap.Error(err))
		}
	}
	return nil
}

// quizzesOf lists the quizzes a representative has stances on
func (s *RepresentativeService) quizzesOf(ctx context.Context, repID string) ([]string, error) {
	stances, err := s.stances.GetByRepresentative(ctx, repID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, st := range stances {
		if _, ok := seen[st.QuizID]; ok {
			continue
		}
		seen[st.QuizID] = struct{}{}
		ids = append(ids, st.QuizID)
	}
	return ids, nil
}

func (s *RepresentativeService) invalidate(ctx context.Context, quizID string) {
	if err := s.matchCache.Invalidate(ctx, quizID); err != nil {
		s.logger.Warn("match cache invalidate failed", zap.String("quizId", quizID), zap.Error(err))
	}
}

// VotingHistory lists how a representative voted, newest policy first
func (s *RepresentativeService) VotingHistory(ctx context.Context, id string) ([]model.RepresentativeVote, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.policies.GetVotesByRepresentative(ctx, id)
}

func validateRepresentative(rep *model.Representative) error {
	rep.Name = strings.TrimSpace(rep.Name)
	if rep.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	switch rep.Level {
	case "", "federal", "state", "local":
	default:
		return fmt.Errorf("%w: unknown level %q", ErrInvalidInput, rep.Level)
	}
	return nil
}
