package store

import (
	"context"
	"errors"
	"time"

	"lostfound-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no document matches the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrStatusConflict is returned when a guarded transition is attempted
	// from a status that disallows it.
	ErrStatusConflict = errors.New("invalid status for transition")
)

// ItemFilter narrows FindAll results. Zero values mean "no constraint".
type ItemFilter struct {
	Category string
	Status   string
	Location string
	Search   string
	Page     int
	Limit    int
}

// ItemPatch carries a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Title       *string
	Description *string
	Category    *models.ItemCategory
	Status      *models.ItemStatus
	Location    *string
	Date        *time.Time
	Images      *[]string
	Reporter    *models.Contact
}

// ItemStore is the persistence boundary for items. Status transitions go
// through SubmitClaim and Transition, which combine the guard check and the
// write into one conditional update so two concurrent claims cannot both
// succeed. UpdateFields is the unguarded admin override.
type ItemStore interface {
	Insert(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error)
	SubmitClaim(ctx context.Context, id primitive.ObjectID, claimant models.Contact) (*models.Item, error)
	Transition(ctx context.Context, id primitive.ObjectID, to models.ItemStatus) (*models.Item, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, patch ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListClaims(ctx context.Context) ([]models.Item, error)
}

// MongoItemStore implements ItemStore over the items collection.
type MongoItemStore struct {
	coll *mongo.Collection
}

func NewMongoItemStore(db *mongo.Database) *MongoItemStore {
	return &MongoItemStore{coll: db.Collection("items")}
}

// EnsureIndexes creates the status index used by list and claim queries.
func (s *MongoItemStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}},
	})
	return err
}

func (s *MongoItemStore) Insert(ctx context.Context, item *models.Item) error {
	_, err := s.coll.InsertOne(ctx, item)
	return err
}

func (s *MongoItemStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MongoItemStore) FindAll(ctx context.Context, f ItemFilter) ([]models.Item, int64, error) {
	filter := bson.M{}
	if f.Category != "" && f.Category != "all" {
		filter["category"] = f.Category
	}
	if f.Status != "" && f.Status != "all" {
		filter["status"] = f.Status
	}
	if f.Location != "" {
		filter["location"] = bson.M{"$regex": f.Location, "$options": "i"}
	}
	if f.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": f.Search, "$options": "i"}},
			{"description": bson.M{"$regex": f.Search, "$options": "i"}},
			{"category": bson.M{"$regex": f.Search, "$options": "i"}},
			{"location": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SubmitClaim moves an item into pending and records the claimant, but only
// when the current status allows a claim. The guard lives in the filter of a
// single FindOneAndUpdate, so a second concurrent claim misses the filter
// instead of overwriting the first. Reporter fields are never part of the
// update document.
func (s *MongoItemStore) SubmitClaim(ctx context.Context, id primitive.ObjectID, claimant models.Contact) (*models.Item, error) {
	now := time.Now()
	claimant.ClaimedAt = &now

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": models.AllowedFrom(models.Pending)},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.Pending,
		"claimedBy": claimant,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.Item
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, s.missReason(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Transition applies a guarded status change (pending -> claimed/rejected)
// as a single conditional update.
func (s *MongoItemStore) Transition(ctx context.Context, id primitive.ObjectID, to models.ItemStatus) (*models.Item, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": models.AllowedFrom(to)},
	}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.Item
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, s.missReason(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// missReason distinguishes a missing item from a failed status guard after a
// conditional update matched nothing.
func (s *MongoItemStore) missReason(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusConflict
}

func (s *MongoItemStore) UpdateFields(ctx context.Context, id primitive.ObjectID, patch ItemPatch) (*models.Item, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.Reporter != nil {
		set["reporter"] = *patch.Reporter
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.Item
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MongoItemStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListClaims returns every item that has entered the claim workflow, newest
// claim first, with the claimant sub-record populated.
func (s *MongoItemStore) ListClaims(ctx context.Context) ([]models.Item, error) {
	filter := bson.M{
		"status":    bson.M{"$in": []models.ItemStatus{models.Pending, models.Claimed, models.Rejected}},
		"claimedBy": bson.M{"$exists": true},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "claimedBy.claimedAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
