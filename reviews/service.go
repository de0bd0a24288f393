package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/princinho/storefront/apperr"
	"github.com/princinho/storefront/dto"
	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/models"
	"go.uber.org/zap"
)

type Store interface {
	InsertReview(ctx context.Context, r models.Review) (string, error)
	UpdateReview(ctx context.Context, productID, reviewID string, set map[string]any) error
	DeleteReview(ctx context.Context, productID, reviewID string) error
	ListReviews(ctx context.Context, productID string) ([]models.Review, error)
}

// Verifier checks a bearer credential and returns its subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type Service struct {
	store       Store
	verifier    Verifier
	requireAuth bool
	now         func() time.Time
}

func NewService(store Store, verifier Verifier, requireAuth bool) *Service {
	return &Service{
		store:       store,
		verifier:    verifier,
		requireAuth: requireAuth,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Add stores a new review. credential may come from the body or the
// Authorization header; when present, or when the service requires it, it is
// verified before anything is written. Reviews carry no uniqueness
// constraint.
func (s *Service) Add(ctx context.Context, req dto.AddReviewRequest, credential string) (*models.Review, error) {
	authorID, err := s.authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	review := models.Review{
		ProductId:     req.ProductID,
		Comment:       req.Review.Comment,
		Rating:        *req.Review.Rating,
		ReviewerName:  req.Review.ReviewerName,
		ReviewerEmail: req.Review.ReviewerEmail,
		Date:          s.now(),
		AuthorId:      authorID,
	}
	id, err := s.store.InsertReview(ctx, review)
	if err != nil {
		logger.Error("[AddReview] error store.InsertReview", zap.String("productId", req.ProductID), zap.Error(err))
		return nil, apperr.Upstream("Failed to add review", err)
	}
	review.Id = id
	return &review, nil
}

// Edit merges the supplied fields into the review. There is no ownership
// check: any caller holding the product and review ids can edit.
func (s *Service) Edit(ctx context.Context, req dto.EditReviewRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	set := req.Review.Fields()
	if len(set) == 0 {
		return apperr.NewValidation("no updates provided")
	}

	err := s.store.UpdateReview(ctx, req.ProductID, req.ReviewID, set)
	if errors.Is(err, models.ErrNotFound) {
		return apperr.NewNotFound("Review not found")
	}
	if err != nil {
		logger.Error("[EditReview] error store.UpdateReview", zap.String("reviewId", req.ReviewID), zap.Error(err))
		return apperr.Upstream("Failed to update review", err)
	}
	return nil
}

// Delete removes the review unconditionally; deleting a review that does not
// exist succeeds. Like Edit it performs no ownership check.
func (s *Service) Delete(ctx context.Context, req dto.DeleteReviewRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := s.store.DeleteReview(ctx, req.ProductID, req.ReviewID); err != nil {
		logger.Error("[DeleteReview] error store.DeleteReview", zap.String("reviewId", req.ReviewID), zap.Error(err))
		return apperr.Upstream("Failed to delete review", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, productID string) ([]models.Review, error) {
	if productID == "" {
		return nil, apperr.NewValidation("productId is required")
	}
	out, err := s.store.ListReviews(ctx, productID)
	if err != nil {
		logger.Error("[ListReviews] error store.ListReviews", zap.String("productId", productID), zap.Error(err))
		return nil, apperr.Upstream("Failed to fetch reviews", err)
	}
	return out, nil
}

func (s *Service) authenticate(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		if s.requireAuth {
			return "", apperr.NewUnauthorized("missing token")
		}
		return "", nil
	}
	if s.verifier == nil {
		return "", apperr.Upstream("Failed to verify token", errors.New("no verifier configured"))
	}
	subject, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return "", apperr.Wrap(apperr.Forbidden, "invalid or expired token", err)
	}
	return subject, nil
}
