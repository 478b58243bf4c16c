package repository

import (
	"context"
	"time"

	"govtrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuizRepo handles MongoDB operations for quizzes
type QuizRepo interface {
	Create(ctx context.Context, quiz *model.Quiz) (string, error)
	GetByID(ctx context.Context, id string) (*model.Quiz, error)
	List(ctx context.Context) ([]*model.Quiz, error)
	Update(ctx context.Context, quiz *model.Quiz) error
	Delete(ctx context.Context, id string) error
}

type quizRepo struct {
	collection *mongo.Collection
}

// NewQuizRepo creates a new quiz repository
func NewQuizRepo(db *mongo.Database) QuizRepo {
	return &quizRepo{
		collection: db.Collection(QuizzesCollection),
	}
}

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz) (string, error) {
	quiz.ID = ""
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = quiz.CreatedAt

	result, err := r.collection.InsertOne(ctx, quiz)
	if err != nil {
		return "", err
	}
	quiz.ID = insertedHex(result)
	return quiz.ID, nil
}

func (r *quizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, nil
	}

	var quiz model.Quiz
	found, err := findOne(ctx, r.collection, bson.M{"_id": oid}, &quiz)
	if err != nil || !found {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) List(ctx context.Context) ([]*model.Quiz, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	quizzes := []*model.Quiz{}
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) Update(ctx context.Context, quiz *model.Quiz) error {
	id := quiz.ID
	quiz.UpdatedAt = time.Now()

	doc := *quiz
	doc.ID = ""
	return replaceByID(ctx, r.collection, id, &doc)
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}
