package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/procureconcierge/portalbackend/models"
)

type RfiStore struct {
	col *mongo.Collection
}

func NewRfiStore(db *mongo.Database) *RfiStore {
	return &RfiStore{col: db.Collection(rfisCollection)}
}

func (s *RfiStore) Create(ctx context.Context, rfi *models.Rfi) error {
	now := time.Now().UTC()
	rfi.CreatedAt = now
	rfi.UpdatedAt = now
	result, err := s.col.InsertOne(ctx, rfi)
	if err != nil {
		return mapWriteErr(err)
	}
	rfi.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (s *RfiStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Rfi, error) {
	var rfi models.Rfi
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rfi); err != nil {
		return nil, mapReadErr(err)
	}
	return &rfi, nil
}

func (s *RfiStore) FindAll(ctx context.Context) ([]*models.Rfi, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rfis := []*models.Rfi{}
	for cursor.Next(ctx) {
		var rfi models.Rfi
		if err := cursor.Decode(&rfi); err != nil {
			return nil, err
		}
		rfis = append(rfis, &rfi)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rfis, nil
}

func (s *RfiStore) Update(ctx context.Context, rfi *models.Rfi) error {
	rfi.UpdatedAt = time.Now().UTC()
	result, err := s.col.ReplaceOne(ctx, bson.M{"_id": rfi.ID}, rfi)
	if err != nil {
		return mapWriteErr(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
