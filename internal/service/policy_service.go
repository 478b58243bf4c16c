package service

import (
	"context"
	"fmt"
	"strings"

	"govtrack/internal/model"
	"govtrack/internal/repository"
)

const defaultListLimit = 50

// PolicyService handles policy browsing and admin maintenance
type PolicyService struct {
	policies repository.PolicyRepo
}

// NewPolicyService creates a new policy service
func NewPolicyService(policies repository.PolicyRepo) *PolicyService {
	return &PolicyService{
		policies: policies,
	}
}

func (s *PolicyService) List(ctx context.Context, filter model.PolicyFilter) ([]*model.Policy, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	return s.policies.List(ctx, filter)
}

// ByLocation lists policies for a state, optionally narrowed to a city
func (s *PolicyService) ByLocation(ctx context.Context, state, city string) ([]*model.Policy, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, fmt.Errorf("%w: state is required", ErrInvalidInput)
	}
	return s.policies.ListByLocation(ctx, state, strings.TrimSpace(city), defaultListLimit)
}

func (s *PolicyService) Get(ctx context.Context, id string) (*model.Policy, error) {
	policy, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrNotFound
	}
	return policy, nil
}

func (s *PolicyService) Create(ctx context.Context, policy *model.Policy) (string, error) {
	if err := validatePolicy(policy); err != nil {
		return "", err
	}
	return s.policies.Create(ctx, policy)
}

// Update replaces a policy, keeping its original introduction date when the
// caller leaves it empty
func (s *PolicyService) Update(ctx context.Context, policy *model.Policy) error {
	if err := validatePolicy(policy); err != nil {
		return err
	}
	existing, err := s.Get(ctx, policy.ID)
	if err != nil {
		return err
	}
	if policy.IntroducedAt.IsZero() {
		policy.IntroducedAt = existing.IntroducedAt
	}
	return storeErr(s.policies.Update(ctx, policy))
}

func (s *PolicyService) Delete(ctx context.Context, id string) error {
	return storeErr(s.policies.Delete(ctx, id))
}

// VotesByRepresentative returns every recorded vote a representative cast
func (s *PolicyService) VotesByRepresentative(ctx context.Context, repID string) ([]model.RepresentativeVote, error) {
	return s.policies.GetVotesByRepresentative(ctx, repID)
}

func validatePolicy(p *model.Policy) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	switch p.Status {
	case "":
		p.Status = model.PolicyProposed
	case model.PolicyProposed, model.PolicyPassed, model.PolicyFailed, model.PolicyVetoed:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	for _, v := range p.VotingRecord {
		switch v.Vote {
		case "yes", "no", "abstain":
		default:
			return fmt.Errorf("%w: unknown vote %q", ErrInvalidInput, v.Vote)
		}
	}
	return nil
}
