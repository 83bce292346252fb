package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/procureconcierge/portalbackend/models"
)

type ForgotPasswordTokenStore struct {
	col *mongo.Collection
}

func NewForgotPasswordTokenStore(db *mongo.Database) *ForgotPasswordTokenStore {
	return &ForgotPasswordTokenStore{col: db.Collection(forgotPasswordTokensCollection)}
}

func (s *ForgotPasswordTokenStore) Create(ctx context.Context, token *models.ForgotPasswordToken) error {
	token.CreatedAt = time.Now().UTC()
	result, err := s.col.InsertOne(ctx, token)
	if err != nil {
		return mapWriteErr(err)
	}
	token.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (s *ForgotPasswordTokenStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.ForgotPasswordToken, error) {
	var token models.ForgotPasswordToken
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&token); err != nil {
		return nil, mapReadErr(err)
	}
	return &token, nil
}

func (s *ForgotPasswordTokenStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
