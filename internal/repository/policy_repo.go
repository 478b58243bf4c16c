package repository

import (
	"context"
	"regexp"
	"time"

	"govtrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PolicyRepo handles MongoDB operations for policies
type PolicyRepo interface {
	Create(ctx context.Context, policy *model.Policy) (string, error)
	GetByID(ctx context.Context, id string) (*model.Policy, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Policy, error)
	List(ctx context.Context, filter model.PolicyFilter) ([]*model.Policy, error)
	ListByLocation(ctx context.Context, state, city string, limit int64) ([]*model.Policy, error)
	Update(ctx context.Context, policy *model.Policy) error
	Delete(ctx context.Context, id string) error
	GetVotesByRepresentative(ctx context.Context, repID string) ([]model.RepresentativeVote, error)
}

type policyRepo struct {
	collection *mongo.Collection
}

// NewPolicyRepo creates a new policy repository
func NewPolicyRepo(db *mongo.Database) PolicyRepo {
	return &policyRepo{
		collection: db.Collection(PoliciesCollection),
	}
}

func (r *policyRepo) Create(ctx context.Context, policy *model.Policy) (string, error) {
	policy.ID = ""
	policy.UpdatedAt = time.Now()
	if policy.IntroducedAt.IsZero() {
		policy.IntroducedAt = policy.UpdatedAt
	}

	result, err := r.collection.InsertOne(ctx, policy)
	if err != nil {
		return "", err
	}
	policy.ID = insertedHex(result)
	return policy.ID, nil
}

func (r *policyRepo) GetByID(ctx context.Context, id string) (*model.Policy, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, nil
	}

	var policy model.Policy
	found, err := findOne(ctx, r.collection, bson.M{"_id": oid}, &policy)
	if err != nil || !found {
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Policy, error) {
	if len(ids) == 0 {
		return []*model.Policy{}, nil
	}
	oids, err := objectIDs(ids)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	policies := []*model.Policy{}
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepo) List(ctx context.Context, filter model.PolicyFilter) ([]*model.Policy, error) {
	query := bson.M{}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.State != "" {
		query["jurisdiction.state"] = filter.State
	}
	if filter.City != "" {
		query["jurisdiction.city"] = filter.City
	}

	return r.find(ctx, query, filter.Limit)
}

// ListByLocation matches state and city case-insensitively
func (r *policyRepo) ListByLocation(ctx context.Context, state, city string, limit int64) ([]*model.Policy, error) {
	query := bson.M{"jurisdiction.state": exactFold(state)}
	if city != "" {
		query["jurisdiction.city"] = exactFold(city)
	}
	return r.find(ctx, query, limit)
}

func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func (r *policyRepo) find(ctx context.Context, query bson.M, limit int64) ([]*model.Policy, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	policies := []*model.Policy{}
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepo) Update(ctx context.Context, policy *model.Policy) error {
	id := policy.ID
	policy.UpdatedAt = time.Now()

	doc := *policy
	doc.ID = ""
	return replaceByID(ctx, r.collection, id, &doc)
}

func (r *policyRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *policyRepo) GetVotesByRepresentative(ctx context.Context, repID string) ([]model.RepresentativeVote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "introducedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"votingRecord.representativeId": repID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var policies []*model.Policy
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}

	votes := []model.RepresentativeVote{}
	for _, p := range policies {
		for _, v := range p.VotingRecord {
			if v.RepresentativeID != repID {
				continue
			}
			votes = append(votes, model.RepresentativeVote{
				PolicyID:    p.ID,
				PolicyTitle: p.Title,
				Status:      p.Status,
				Vote:        v.Vote,
				Date:        v.Date,
			})
		}
	}
	return votes, nil
}
