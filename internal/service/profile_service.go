package service

import (
	"context"
	"fmt"
	"strings"

	"govtrack/internal/model"
	"govtrack/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ProfileService serves the signed-in user's dashboard and bookmarks
type ProfileService struct {
	users    repository.UserRepo
	policies repository.PolicyRepo
	reps     repository.RepresentativeRepo
	results  repository.ResultRepo
}

// NewProfileService creates a new profile service
func NewProfileService(
	users repository.UserRepo,
	policies repository.PolicyRepo,
	reps repository.RepresentativeRepo,
	results repository.ResultRepo,
) *ProfileService {
	return &ProfileService{
		users:    users,
		policies: policies,
		reps:     reps,
		results:  results,
	}
}

// Get assembles the user's saved items and latest quiz result
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	profile := &model.Profile{
		User:                 user,
		SavedPolicies:        []*model.Policy{},
		SavedRepresentatives: []*model.Representative{},
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(user.SavedPolicies) > 0 {
		g.Go(func() error {
			policies, err := s.policies.GetByIDs(gctx, user.SavedPolicies)
			if err != nil {
				return err
			}
			profile.SavedPolicies = policies
			return nil
		})
	}
	if len(user.SavedRepresentatives) > 0 {
		g.Go(func() error {
			reps, err := s.reps.GetByIDs(gctx, user.SavedRepresentatives)
			if err != nil {
				return err
			}
			profile.SavedRepresentatives = reps
			return nil
		})
	}
	g.Go(func() error {
		results, err := s.results.GetByUserID(gctx, userID, 1)
		if err != nil {
			return err
		}
		if len(results) > 0 {
			profile.LatestResult = results[0]
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update changes the user's name and location
func (s *ProfileService) Update(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	user.Location = req.Location
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// Save bookmarks a policy or representative
func (s *ProfileService) Save(ctx context.Context, userID string, kind model.SavedKind, itemID string) error {
	if err := s.checkItem(ctx, kind, itemID); err != nil {
		return err
	}
	return storeErr(s.users.AddSaved(ctx, userID, kind, itemID))
}

// Unsave removes a bookmark; removing one that isn't there is not an error
func (s *ProfileService) Unsave(ctx context.Context, userID string, kind model.SavedKind, itemID string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown saved kind %q", ErrInvalidInput, kind)
	}
	return storeErr(s.users.RemoveSaved(ctx, userID, kind, itemID))
}

// Results lists the user's quiz history, newest first
func (s *ProfileService) Results(ctx context.Context, userID string, limit int64) ([]*model.QuizResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.results.GetByUserID(ctx, userID, limit)
}

func (s *ProfileService) checkItem(ctx context.Context, kind model.SavedKind, itemID string) error {
	var found bool
	switch kind {
	case model.SavedPolicy:
		p, err := s.policies.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		found = p != nil
	case model.SavedRepresentative:
		r, err := s.reps.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		found = r != nil
	default:
		return fmt.Errorf("%w: unknown saved kind %q", ErrInvalidInput, kind)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
