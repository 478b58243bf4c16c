package repository

import (
	"context"
	"strings"
	"time"

	"govtrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepo handles MongoDB operations for user accounts
type UserRepo interface {
	Create(ctx context.Context, user *model.User) (string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit int64) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	AddSaved(ctx context.Context, userID string, kind model.SavedKind, itemID string) error
	RemoveSaved(ctx context.Context, userID string, kind model.SavedKind, itemID string) error
}

type userRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		collection: db.Collection(UsersCollection),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func savedField(kind model.SavedKind) string {
	if kind == model.SavedRepresentative {
		return "savedRepresentatives"
	}
	return "savedPolicies"
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (string, error) {
	user.ID = ""
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.SavedPolicies == nil {
		user.SavedPolicies = []string{}
	}
	if user.SavedRepresentatives == nil {
		user.SavedRepresentatives = []string{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", err
	}
	user.ID = insertedHex(result)
	return user.ID, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, nil
	}

	var user model.User
	found, err := findOne(ctx, r.collection, bson.M{"_id": oid}, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	found, err := findOne(ctx, r.collection, bson.M{"email": normalizeEmail(email)}, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, limit int64) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}

	user.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":      user.Name,
		"location":  user.Location,
		"role":      user.Role,
		"updatedAt": user.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *userRepo) AddSaved(ctx context.Context, userID string, kind model.SavedKind, itemID string) error {
	return r.updateSaved(ctx, userID, bson.M{"$addToSet": bson.M{savedField(kind): itemID}})
}

func (r *userRepo) RemoveSaved(ctx context.Context, userID string, kind model.SavedKind, itemID string) error {
	return r.updateSaved(ctx, userID, bson.M{"$pull": bson.M{savedField(kind): itemID}})
}

func (r *userRepo) updateSaved(ctx context.Context, userID string, update bson.M) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	update["$currentDate"] = bson.M{"updatedAt": true}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
