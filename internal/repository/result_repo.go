package repository

import (
	"context"
	"time"

	"govtrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo handles MongoDB operations for scored quiz submissions
type ResultRepo interface {
	Create(ctx context.Context, result *model.QuizResult) (string, error)
	GetByID(ctx context.Context, id string) (*model.QuizResult, error)
	GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.QuizResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection(ResultsCollection),
	}
}

func (r *resultRepo) Create(ctx context.Context, result *model.QuizResult) (string, error) {
	result.ID = ""
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now()
	}

	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return "", err
	}
	result.ID = insertedHex(res)
	return result.ID, nil
}

func (r *resultRepo) GetByID(ctx context.Context, id string) (*model.QuizResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, nil
	}

	var result model.QuizResult
	found, err := findOne(ctx, r.collection, bson.M{"_id": oid}, &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.QuizResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "takenAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []*model.QuizResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
