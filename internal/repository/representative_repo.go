package repository

import (
	"context"
	"time"

	"govtrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RepresentativeRepo handles MongoDB operations for representatives
type RepresentativeRepo interface {
	Create(ctx context.Context, rep *model.Representative) (string, error)
	GetByID(ctx context.Context, id string) (*model.Representative, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Representative, error)
	List(ctx context.Context, filter model.RepresentativeFilter) ([]*model.Representative, error)
	Update(ctx context.Context, rep *model.Representative) error
	Delete(ctx context.Context, id string) error
}

type representativeRepo struct {
	collection *mongo.Collection
}

// NewRepresentativeRepo creates a new representative repository
func NewRepresentativeRepo(db *mongo.Database) RepresentativeRepo {
	return &representativeRepo{
		collection: db.Collection(RepresentativesCollection),
	}
}

func (r *representativeRepo) Create(ctx context.Context, rep *model.Representative) (string, error) {
	rep.ID = ""
	rep.CreatedAt = time.Now()
	rep.UpdatedAt = rep.CreatedAt

	result, err := r.collection.InsertOne(ctx, rep)
	if err != nil {
		return "", err
	}
	rep.ID = insertedHex(result)
	return rep.ID, nil
}

func (r *representativeRepo) GetByID(ctx context.Context, id string) (*model.Representative, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, nil
	}

	var rep model.Representative
	found, err := findOne(ctx, r.collection, bson.M{"_id": oid}, &rep)
	if err != nil || !found {
		return nil, err
	}
	return &rep, nil
}

func (r *representativeRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Representative, error) {
	if len(ids) == 0 {
		return []*model.Representative{}, nil
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

	reps := []*model.Representative{}
	if err := cursor.All(ctx, &reps); err != nil {
		return nil, err
	}
	return reps, nil
}

func (r *representativeRepo) List(ctx context.Context, filter model.RepresentativeFilter) ([]*model.Representative, error) {
	query := bson.M{}
	if filter.Party != "" {
		query["party"] = filter.Party
	}
	if filter.State != "" {
		query["state"] = filter.State
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reps := []*model.Representative{}
	if err := cursor.All(ctx, &reps); err != nil {
		return nil, err
	}
	return reps, nil
}

func (r *representativeRepo) Update(ctx context.Context, rep *model.Representative) error {
	id := rep.ID
	rep.UpdatedAt = time.Now()

	doc := *rep
	doc.ID = ""
	return replaceByID(ctx, r.collection, id, &doc)
}

func (r *representativeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}
