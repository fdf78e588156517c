package store

import (
	"context"
	"errors"
	"time"

	"lostfound-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminStore is the persistence boundary for the admin account.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Insert(ctx context.Context, admin *models.Admin) error
}

// MongoAdminStore implements AdminStore over the admins collection.
type MongoAdminStore struct {
	coll *mongo.Collection
}

func NewMongoAdminStore(db *mongo.Database) *MongoAdminStore {
	return &MongoAdminStore{coll: db.Collection("admins")}
}

func (s *MongoAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *MongoAdminStore) Insert(ctx context.Context, admin *models.Admin) error {
	_, err := s.coll.InsertOne(ctx, admin)
	return err
}

// EnsureAdmin seeds the admin account if no record exists for the configured
// email. An existing record is left untouched.
func EnsureAdmin(ctx context.Context, admins AdminStore, email, password string) error {
	if _, err := admins.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	now := time.Now()
	admin := &models.Admin{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	return admins.Insert(ctx, admin)
}
