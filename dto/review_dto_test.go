package dto

import (
	"testing"

	"github.com/princinho/storefront/apperr"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestValidate_AddReviewRequest(t *testing.T) {
	valid := func() AddReviewRequest {
		return AddReviewRequest{
			ProductID: "001",
			Review: ReviewInput{
				Comment:       "Great mascara",
				Rating:        intPtr(5),
				ReviewerName:  "Ada",
				ReviewerEmail: "ada@example.com",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *AddReviewRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(r *AddReviewRequest) {}},
		{name: "missing product id", mutate: func(r *AddReviewRequest) { r.ProductID = "" }, wantMsg: "productId is required"},
		{name: "missing comment", mutate: func(r *AddReviewRequest) { r.Review.Comment = "" }, wantMsg: "comment is required"},
		{name: "missing rating", mutate: func(r *AddReviewRequest) { r.Review.Rating = nil }, wantMsg: "rating is required"},
		{name: "rating too high", mutate: func(r *AddReviewRequest) { r.Review.Rating = intPtr(6) }, wantMsg: "rating must be between 1 and 5"},
		{name: "rating zero", mutate: func(r *AddReviewRequest) { r.Review.Rating = intPtr(0) }, wantMsg: "rating must be between 1 and 5"},
		{name: "missing name", mutate: func(r *AddReviewRequest) { r.Review.ReviewerName = "" }, wantMsg: "reviewerName is required"},
		{name: "missing email", mutate: func(r *AddReviewRequest) { r.Review.ReviewerEmail = "" }, wantMsg: "reviewerEmail is required"},
		{name: "bad email", mutate: func(r *AddReviewRequest) { r.Review.ReviewerEmail = "ada" }, wantMsg: "reviewerEmail must be a valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := Validate(req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.IsKind(err, apperr.Validation))
			assert.Equal(t, tt.wantMsg, apperr.From(err).Message())
		})
	}
}

func TestValidate_EditReviewRequest(t *testing.T) {
	err := Validate(EditReviewRequest{ProductID: "001", ReviewID: "r1"})
	assert.Equal(t, "review is required", apperr.From(err).Message())

	empty := ""
	err = Validate(EditReviewRequest{ProductID: "001", ReviewID: "r1", Review: &ReviewPatch{Comment: &empty}})
	assert.Equal(t, "comment must not be empty", apperr.From(err).Message())

	assert.NoError(t, Validate(EditReviewRequest{ProductID: "001", ReviewID: "r1", Review: &ReviewPatch{Rating: intPtr(2)}}))
}

func TestReviewPatch_Fields(t *testing.T) {
	comment := "Changed my mind"
	p := ReviewPatch{Comment: &comment, Rating: intPtr(3)}
	assert.Equal(t, map[string]any{"comment": "Changed my mind", "rating": 3}, p.Fields())
	assert.Empty(t, ReviewPatch{}.Fields())
}
