package repository

import (
	"context"
	"time"

	"govtrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StanceRepo stores representatives' reference positions on quiz questions
type StanceRepo interface {
	Upsert(ctx context.Context, stance *model.Stance) error
	GetByQuiz(ctx context.Context, quizID string) ([]*model.Stance, error)
	GetByRepresentative(ctx context.Context, repID string) ([]*model.Stance, error)
	DeleteByQuiz(ctx context.Context, quizID string) error
	DeleteByRepresentative(ctx context.Context, quizID, repID string) error
	DeleteExcept(ctx context.Context, quizID, repID string, keep []string) error
}

type stanceRepo struct {
	collection *mongo.Collection
}

// NewStanceRepo creates a new stance repository
func NewStanceRepo(db *mongo.Database) StanceRepo {
	return &stanceRepo{
		collection: db.Collection(StancesCollection),
	}
}

func (r *stanceRepo) Upsert(ctx context.Context, stance *model.Stance) error {
	stance.UpdatedAt = time.Now()
	filter := bson.M{
		"quizId":           stance.QuizID,
		"representativeId": stance.RepresentativeID,
		"questionKey":      stance.QuestionKey,
	}
	update := bson.M{"$set": bson.M{
		"value":     stance.Value,
		"source":    stance.Source,
		"comments":  stance.Comments,
		"updatedAt": stance.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *stanceRepo) GetByQuiz(ctx context.Context, quizID string) ([]*model.Stance, error) {
	return r.find(ctx, bson.M{"quizId": quizID})
}

func (r *stanceRepo) GetByRepresentative(ctx context.Context, repID string) ([]*model.Stance, error) {
	return r.find(ctx, bson.M{"representativeId": repID})
}

func (r *stanceRepo) find(ctx context.Context, filter bson.M) ([]*model.Stance, error) {
	// Sorted so subjects reach the scorer in a stable order
	opts := options.Find().SetSort(bson.D{{Key: "representativeId", Value: 1}, {Key: "questionKey", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stances := []*model.Stance{}
	if err := cursor.All(ctx, &stances); err != nil {
		return nil, err
	}
	return stances, nil
}

func (r *stanceRepo) DeleteByQuiz(ctx context.Context, quizID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"quizId": quizID})
	return err
}

// DeleteByRepresentative removes a representative's stances on quizID, or on
// every quiz when quizID is empty.
func (r *stanceRepo) DeleteByRepresentative(ctx context.Context, quizID, repID string) error {
	filter := bson.M{"representativeId": repID}
	if quizID != "" {
		filter["quizId"] = quizID
	}
	_, err := r.collection.DeleteMany(ctx, filter)
	return err
}

// DeleteExcept removes a representative's stances on quizID whose question
// key is not in keep
func (r *stanceRepo) DeleteExcept(ctx context.Context, quizID, repID string, keep []string) error {
	if keep == nil {
		keep = []string{}
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{
		"quizId":           quizID,
		"representativeId": repID,
		"questionKey":      bson.M{"$nin": keep},
	})
	return err
}
