package catalog

import (
	"context"
	"errors"

	"github.com/princinho/storefront/apperr"
	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/models"
	"go.uber.org/zap"
)

// Store is the document store as seen by the catalog.
type Store interface {
	FindProducts(ctx context.Context, q Query) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// Cache is an optional read-through cache for single documents.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

const categoriesCacheKey = "catalog:categories"

func productCacheKey(id string) string { return "catalog:product:" + id }

type Service struct {
	store Store
	cache Cache
}

// NewService returns a catalog backed by store. cache may be nil.
func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) ListProducts(ctx context.Context, state QueryState) (Page, error) {
	q := BuildQuery(state)

	if state.Cursor != "" {
		c, err := DecodeCursor(state.Cursor, state)
		if err != nil {
			return Page{}, apperr.Wrap(apperr.Validation, "invalid cursor", err)
		}
		q.StartAfter = c
	} else {
		c, err := ResolveCursor(ctx, s.store, q, state.Page)
		if errors.Is(err, ErrNoCursor) {
			return Assemble(nil), nil
		}
		if err != nil {
			logger.Error("[ListProducts] error ResolveCursor", zap.Int("page", state.Page), zap.Error(err))
			return Page{}, apperr.Upstream("failed to fetch products", err)
		}
		q.StartAfter = c
	}

	docs, err := s.store.FindProducts(ctx, q)
	if err != nil {
		logger.Error("[ListProducts] error store.FindProducts", zap.Error(err))
		return Page{}, apperr.Upstream("failed to fetch products", err)
	}

	page := Assemble(docs)
	if page.LastDoc != nil {
		token, err := EncodeCursor(state, CursorFor(q.Sort, docs[len(docs)-1]))
		if err != nil {
			return Page{}, apperr.Upstream("failed to fetch products", err)
		}
		page.NextCursor = token
	}
	return page, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, apperr.NewValidation("product id is required")
	}

	var cached models.Product
	if s.cacheGet(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}

	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NewNotFound("Product not found")
	}
	if err != nil {
		logger.Error("[GetProduct] error store.GetProduct", zap.String("id", id), zap.Error(err))
		return nil, apperr.Upstream("Failed to fetch product", err)
	}

	s.cacheSet(ctx, productCacheKey(id), p)
	return p, nil
}

func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cacheGet(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}

	categories, err := s.store.GetCategories(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NewNotFound("Categories not found")
	}
	if err != nil {
		logger.Error("[GetCategories] error store.GetCategories", zap.Error(err))
		return nil, apperr.Upstream("Failed to fetch categories", err)
	}
	if categories == nil {
		categories = make([]string, 0)
	}

	s.cacheSet(ctx, categoriesCacheKey, categories)
	return categories, nil
}

// cache failures never fail a request, the store is the source of truth

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
