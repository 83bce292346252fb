package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/procureconcierge/portalbackend/models"
)

type SessionStore struct {
	col *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{col: db.Collection(sessionsCollection)}
}

func (s *SessionStore) FindOrCreate(ctx context.Context, sessionID bson.ObjectID) (*models.Session, error) {
	var session models.Session
	err := s.col.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return s.create(ctx, sessionID)
}

func (s *SessionStore) New(ctx context.Context) (*models.Session, error) {
	return s.create(ctx, bson.NewObjectID())
}

func (s *SessionStore) create(ctx context.Context, sessionID bson.ObjectID) (*models.Session, error) {
	session := models.Session{
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	result, err := s.col.InsertOne(ctx, session)
	if err != nil {
		// Lost a race with a concurrent request holding the same cookie.
		if isDuplicateKey(err) {
			var existing models.Session
			if ferr := s.col.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&existing); ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	session.ID = result.InsertedID.(bson.ObjectID)
	return &session, nil
}

func (s *SessionStore) SetUser(ctx context.Context, session *models.Session, user *models.SessionUser) error {
	update := bson.M{"$set": bson.M{"user": user}}
	if user == nil {
		update = bson.M{"$unset": bson.M{"user": ""}}
	}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	session.User = user
	return nil
}
