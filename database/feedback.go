package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/procureconcierge/portalbackend/models"
)

type FeedbackStore struct {
	col *mongo.Collection
}

func NewFeedbackStore(db *mongo.Database) *FeedbackStore {
	return &FeedbackStore{col: db.Collection(feedbackCollection)}
}

func (s *FeedbackStore) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now().UTC()
	result, err := s.col.InsertOne(ctx, feedback)
	if err != nil {
		return mapWriteErr(err)
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}
