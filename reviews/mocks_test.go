package reviews

import (
	"context"

	"github.com/princinho/storefront/models"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) InsertReview(ctx context.Context, r models.Review) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *mockStore) UpdateReview(ctx context.Context, productID, reviewID string, set map[string]any) error {
	return m.Called(ctx, productID, reviewID, set).Error(0)
}

func (m *mockStore) DeleteReview(ctx context.Context, productID, reviewID string) error {
	return m.Called(ctx, productID, reviewID).Error(0)
}

func (m *mockStore) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	args := m.Called(ctx, productID)
	out, _ := args.Get(0).([]models.Review)
	return out, args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
