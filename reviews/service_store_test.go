package reviews_test

import (
	"context"
	"testing"

	"github.com/princinho/storefront/database"
	"github.com/princinho/storefront/dto"
	"github.com/princinho/storefront/reviews"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditKeepsUnspecifiedFields(t *testing.T) {
	store := database.NewMemoryStore()
	svc := reviews.NewService(store, nil, false)
	ctx := context.Background()

	rating := 5
	added, err := svc.Add(ctx, dto.AddReviewRequest{
		ProductID: "001",
		Review: dto.ReviewInput{
			Comment: "Great", Rating: &rating, ReviewerName: "Ada", ReviewerEmail: "ada@example.com",
		},
	}, "")
	require.NoError(t, err)

	comment := "Good, not great"
	require.NoError(t, svc.Edit(ctx, dto.EditReviewRequest{
		ProductID: "001", ReviewID: added.Id, Review: &dto.ReviewPatch{Comment: &comment},
	}))

	list, err := svc.List(ctx, "001")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Good, not great", list[0].Comment)
	assert.Equal(t, 5, list[0].Rating)
	assert.Equal(t, "Ada", list[0].ReviewerName)
	assert.Equal(t, "ada@example.com", list[0].ReviewerEmail)
	assert.Equal(t, added.Date, list[0].Date)

	require.NoError(t, svc.Delete(ctx, dto.DeleteReviewRequest{ProductID: "001", ReviewID: added.Id}))
	require.NoError(t, svc.Delete(ctx, dto.DeleteReviewRequest{ProductID: "001", ReviewID: added.Id}), "deleting twice succeeds")

	list, err = svc.List(ctx, "001")
	require.NoError(t, err)
	assert.Empty(t, list)
}
