package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/princinho/storefront/catalog"
	"github.com/princinho/storefront/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore keeps every collection in process. It orders and compares
// values the way MongoDB does for the field types the catalogue uses
// (strings byte-wise, numbers numerically), so listings behave the same as
// against a real server.
type MemoryStore struct {
	mu            sync.RWMutex
	products      map[string]models.Product
	categories    []string
	hasCategories bool
	reviews       map[string]models.Review
	users         map[bson.ObjectID]models.User
	refreshTokens []models.RefreshToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: map[string]models.Product{},
		reviews:  map[string]models.Review{},
		users:    map[bson.ObjectID]models.User{},
	}
}

var _ catalog.Store = (*MemoryStore)(nil)

func (s *MemoryStore) UpsertProduct(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Id] = p
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

func (s *MemoryStore) PutCategories(_ context.Context, categories []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]string(nil), categories...)
	s.hasCategories = true
	return nil
}

func (s *MemoryStore) FindProducts(_ context.Context, q catalog.Query) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range s.products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(q.Sort, out[i], out[j]) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) GetCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasCategories {
		return nil, models.ErrNotFound
	}
	return append([]string(nil), s.categories...), nil
}

func (s *MemoryStore) InsertReview(_ context.Context, r models.Review) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Id = bson.NewObjectID().Hex()
	s.reviews[r.Id] = r
	return r.Id, nil
}

func (s *MemoryStore) UpsertReview(_ context.Context, r models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.Id] = r
	return nil
}

func (s *MemoryStore) UpdateReview(_ context.Context, productID, reviewID string, set map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok || r.ProductId != productID {
		return models.ErrNotFound
	}
	for k, v := range set {
		switch k {
		case "comment":
			r.Comment = v.(string)
		case "rating":
			r.Rating = v.(int)
		case "reviewerName":
			r.ReviewerName = v.(string)
		case "reviewerEmail":
			r.ReviewerEmail = v.(string)
		default:
			return fmt.Errorf("memory store: unsupported review field %q", k)
		}
	}
	s.reviews[reviewID] = r
	return nil
}

func (s *MemoryStore) DeleteReview(_ context.Context, productID, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reviews[reviewID]; ok && r.ProductId == productID {
		delete(s.reviews, reviewID)
	}
	return nil
}

func (s *MemoryStore) ListReviews(_ context.Context, productID string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Review, 0)
	for _, r := range s.reviews {
		if r.ProductId == productID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Id < out[j].Id
	})
	return out, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) FindUserByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) InsertRefreshToken(_ context.Context, rt models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt.ID = bson.NewObjectID()
	s.refreshTokens = append(s.refreshTokens, rt)
	return nil
}

func (s *MemoryStore) FindActiveRefreshToken(_ context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rt := range s.refreshTokens {
		if rt.TokenHash == hash && rt.RevokedAt == nil && rt.ExpiresAt.After(now) {
			return &rt, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) RevokeRefreshToken(_ context.Context, hash string, now time.Time, replacedBy *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rt := range s.refreshTokens {
		if rt.TokenHash == hash && rt.RevokedAt == nil && rt.ExpiresAt.After(now) {
			t := now
			s.refreshTokens[i].RevokedAt = &t
			s.refreshTokens[i].ReplacedBy = replacedBy
			return nil
		}
	}
	return models.ErrNotFound
}

func matches(p models.Product, q catalog.Query) bool {
	for _, pred := range q.Filters {
		c := compare(fieldValue(p, pred.Field), pred.Value)
		switch pred.Op {
		case catalog.OpEq:
			if c != 0 {
				return false
			}
		case catalog.OpGte:
			if c < 0 {
				return false
			}
		case catalog.OpLte:
			if c > 0 {
				return false
			}
		}
	}
	if q.StartAfter != nil {
		marker := models.Product{Id: q.StartAfter.ID}
		if v, ok := q.StartAfter.Value.(float64); ok {
			marker.Price = v
		}
		if !before(q.Sort, marker, p) {
			return false
		}
	}
	return true
}

// before reports whether a sorts strictly before b under (sort field, _id asc).
func before(s catalog.Sort, a, b models.Product) bool {
	if s.Field != catalog.FieldID {
		c := compare(fieldValue(a, s.Field), fieldValue(b, s.Field))
		if s.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.Id < b.Id
	}
	if s.Desc {
		return a.Id > b.Id
	}
	return a.Id < b.Id
}

func fieldValue(p models.Product, field string) any {
	switch field {
	case catalog.FieldID:
		return p.Id
	case catalog.FieldTitle:
		return p.Title
	case catalog.FieldCategory:
		return p.Category
	case catalog.FieldPrice:
		return p.Price
	}
	return p.Extra[field]
}

func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
