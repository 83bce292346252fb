package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/procureconcierge/portalbackend/models"
)

type FileStore struct {
	col *mongo.Collection
}

func NewFileStore(db *mongo.Database) *FileStore {
	return &FileStore{col: db.Collection(filesCollection)}
}

func (s *FileStore) Create(ctx context.Context, file *models.File) error {
	file.CreatedAt = time.Now().UTC()
	result, err := s.col.InsertOne(ctx, file)
	if err != nil {
		return mapWriteErr(err)
	}
	file.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (s *FileStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.File, error) {
	var file models.File
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&file); err != nil {
		return nil, mapReadErr(err)
	}
	return &file, nil
}

func (s *FileStore) FindByHash(ctx context.Context, hash string) (*models.File, error) {
	var file models.File
	if err := s.col.FindOne(ctx, bson.M{"hash": hash}).Decode(&file); err != nil {
		return nil, mapReadErr(err)
	}
	return &file, nil
}
