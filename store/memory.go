package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lostfound-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryItemStore is an in-memory ItemStore with the same guard semantics as
// the Mongo implementation. It backs tests and local development without a
// database.
type MemoryItemStore struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Item
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[primitive.ObjectID]models.Item)}
}

func (s *MemoryItemStore) Insert(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryItemStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemoryItemStore) FindAll(_ context.Context, f ItemFilter) ([]models.Item, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Item{}
	for _, item := range s.items {
		if f.Category != "" && f.Category != "all" && string(item.Category) != f.Category {
			continue
		}
		if f.Status != "" && f.Status != "all" && string(item.Status) != f.Status {
			continue
		}
		if f.Location != "" && !containsFold(item.Location, f.Location) {
			continue
		}
		if f.Search != "" &&
			!containsFold(item.Title, f.Search) &&
			!containsFold(item.Description, f.Search) &&
			!containsFold(string(item.Category), f.Search) &&
			!containsFold(item.Location, f.Search) {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (s *MemoryItemStore) SubmitClaim(_ context.Context, id primitive.ObjectID, claimant models.Contact) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !models.CanTransition(item.Status, models.Pending) {
		return nil, ErrStatusConflict
	}

	now := time.Now()
	claimant.ClaimedAt = &now
	item.Status = models.Pending
	item.ClaimedBy = &claimant
	item.UpdatedAt = now
	s.items[id] = item
	return &item, nil
}

func (s *MemoryItemStore) Transition(_ context.Context, id primitive.ObjectID, to models.ItemStatus) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !models.CanTransition(item.Status, to) {
		return nil, ErrStatusConflict
	}

	item.Status = to
	item.UpdatedAt = time.Now()
	s.items[id] = item
	return &item, nil
}

func (s *MemoryItemStore) UpdateFields(_ context.Context, id primitive.ObjectID, patch ItemPatch) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.Date != nil {
		item.Date = *patch.Date
	}
	if patch.Images != nil {
		item.Images = *patch.Images
	}
	if patch.Reporter != nil {
		item.Reporter = *patch.Reporter
	}
	item.UpdatedAt = time.Now()
	s.items[id] = item
	return &item, nil
}

func (s *MemoryItemStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryItemStore) ListClaims(_ context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims := []models.Item{}
	for _, item := range s.items {
		if item.ClaimedBy == nil {
			continue
		}
		switch item.Status {
		case models.Pending, models.Claimed, models.Rejected:
			claims = append(claims, item)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].ClaimedBy.ClaimedAt.After(*claims[j].ClaimedBy.ClaimedAt)
	})
	return claims, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MemoryAdminStore is the in-memory counterpart of MongoAdminStore.
type MemoryAdminStore struct {
	mu     sync.Mutex
	admins map[string]models.Admin
}

func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{admins: make(map[string]models.Admin)}
}

func (s *MemoryAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &admin, nil
}

func (s *MemoryAdminStore) Insert(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	s.admins[admin.Email] = *admin
	return nil
}
