package main

import (
	"context"
	"strings"
	"testing"

	"github.com/princinho/storefront/catalog"
	"github.com/princinho/storefront/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "products": [
    {
      "id": 1,
      "title": "Créme Brush",
      "category": "beauty",
      "price": 9.99,
      "rating": 4.5,
      "brand": "Essence",
      "images": ["https://cdn.example.com/1.png"],
      "reviews": [
        {"rating": 5, "comment": "Lovely", "date": "2024-05-23T08:56:21.618Z", "reviewerName": "Ada", "reviewerEmail": "ada@example.com"}
      ]
    },
    {"id": "12", "title": "Apple", "category": "groceries", "price": 1.5},
    {"id": "sku-x", "title": "Lipstick", "category": "beauty", "price": 3}
  ]
}`

func TestParseCatalogue(t *testing.T) {
	cat, err := parseCatalogue(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, cat.Products, 3)
	assert.Equal(t, "001", cat.Products[0].Id)
	assert.Equal(t, "012", cat.Products[1].Id)
	assert.Equal(t, "sku-x", cat.Products[2].Id)
	assert.Equal(t, "Créme Brush", cat.Products[0].Title)
	assert.Equal(t, "Essence", cat.Products[0].Extra["brand"])
	assert.NotContains(t, cat.Products[0].Extra, "reviews")
	assert.Nil(t, cat.Products[1].Rating)

	assert.Equal(t, []string{"beauty", "groceries"}, cat.Categories)

	require.Len(t, cat.Reviews, 1)
	assert.Equal(t, "001", cat.Reviews[0].ProductId)
	assert.Equal(t, "001-0", cat.Reviews[0].Id)
	assert.Equal(t, 2024, cat.Reviews[0].Date.Year())
}

func TestParseCatalogue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `nope`},
		{name: "missing id", input: `[{"title":"a","category":"b","price":1}]`},
		{name: "duplicate id", input: `[{"id":1,"title":"a","category":"b"},{"id":"001","title":"c","category":"b"}]`},
		{name: "missing category", input: `[{"id":1,"title":"a"}]`},
		{name: "fractional id", input: `[{"id":1.5,"title":"a","category":"b"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalogue(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cat, err := parseCatalogue(strings.NewReader(sample))
	require.NoError(t, err)

	store := database.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, load(ctx, store, cat))

	p, err := store.GetProduct(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, 9.99, p.Price)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"beauty", "groceries"}, categories)

	reviews, err := store.ListReviews(ctx, "001")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	page, err := catalog.NewService(store, nil).ListProducts(ctx, catalog.NewQueryState("1", "", "", "beauty", ""))
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestLoad_TwiceKeepsOneCopyOfEachReview(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cat, err := parseCatalogue(strings.NewReader(sample))
		require.NoError(t, err)
		require.NoError(t, load(ctx, store, cat))
	}

	reviews, err := store.ListReviews(ctx, "001")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "001-0", reviews[0].Id)
	assert.Equal(t, "Lovely", reviews[0].Comment)
}
