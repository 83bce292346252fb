package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/procureconcierge/portalbackend/models"
)

type VendorIdeaStore struct {
	col *mongo.Collection
}

func NewVendorIdeaStore(db *mongo.Database) *VendorIdeaStore {
	return &VendorIdeaStore{col: db.Collection(vendorIdeasCollection)}
}

func (s *VendorIdeaStore) Create(ctx context.Context, idea *models.VendorIdea) error {
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	result, err := s.col.InsertOne(ctx, idea)
	if err != nil {
		return mapWriteErr(err)
	}
	idea.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (s *VendorIdeaStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.VendorIdea, error) {
	var idea models.VendorIdea
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&idea); err != nil {
		return nil, mapReadErr(err)
	}
	return &idea, nil
}

func (s *VendorIdeaStore) FindAll(ctx context.Context) ([]*models.VendorIdea, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ideas := []*models.VendorIdea{}
	for cursor.Next(ctx) {
		var idea models.VendorIdea
		if err := cursor.Decode(&idea); err != nil {
			return nil, err
		}
		ideas = append(ideas, &idea)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (s *VendorIdeaStore) Update(ctx context.Context, idea *models.VendorIdea) error {
	idea.UpdatedAt = time.Now().UTC()
	result, err := s.col.ReplaceOne(ctx, bson.M{"_id": idea.ID}, idea)
	if err != nil {
		return mapWriteErr(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
