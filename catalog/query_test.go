package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryState(t *testing.T) {
	tests := []struct {
		name                              string
		page, sortBy, order, cat, search string
		want                              QueryState
	}{
		{
			name: "defaults",
			want: QueryState{Page: 1, SortBy: SortByID, Order: Asc},
		},
		{
			name: "negative page coerced",
			page: "-3", sortBy: "price", order: "desc",
			want: QueryState{Page: 1, SortBy: SortByPrice, Order: Desc},
		},
		{
			name: "non numeric page coerced",
			page: "two",
			want: QueryState{Page: 1, SortBy: SortByID, Order: Asc},
		},
		{
			name: "id sort ignores desc",
			page: "3", sortBy: "id", order: "desc",
			want: QueryState{Page: 3, SortBy: SortByID, Order: Asc},
		},
		{
			name: "unknown sort falls back to id",
			sortBy: "rating", order: "desc",
			want: QueryState{Page: 1, SortBy: SortByID, Order: Asc},
		},
		{
			name: "filters kept verbatim",
			page: "2", sortBy: "price", order: "asc", cat: "beauty", search: "Ess",
			want: QueryState{Page: 2, SortBy: SortByPrice, Order: Asc, Category: "beauty", Search: "Ess"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewQueryState(tt.page, tt.sortBy, tt.order, tt.cat, tt.search))
		})
	}
}

func TestNewQueryState_NormalizesSearch(t *testing.T) {
	s := NewQueryState("1", "", "", "", "Cre\u0301me")
	assert.Equal(t, "Cr\u00e9me", s.Search)
}

func TestBuildQuery(t *testing.T) {
	t.Run("search and category compose", func(t *testing.T) {
		q := BuildQuery(QueryState{Page: 1, SortBy: SortByPrice, Order: Desc, Category: "beauty", Search: "Ess"})

		assert.Equal(t, []Predicate{
			{Field: FieldTitle, Op: OpGte, Value: "Ess"},
			{Field: FieldTitle, Op: OpLte, Value: "Ess\U0010FFFF"},
			{Field: FieldCategory, Op: OpEq, Value: "beauty"},
		}, q.Filters)
		assert.Equal(t, Sort{Field: FieldPrice, Desc: true}, q.Sort)
		assert.Equal(t, PageSize, q.Limit)
		assert.Nil(t, q.StartAfter)
	})

	t.Run("no filters sorts by id", func(t *testing.T) {
		q := BuildQuery(QueryState{Page: 1, SortBy: SortByID, Order: Asc})
		assert.Empty(t, q.Filters)
		assert.Equal(t, Sort{Field: FieldID}, q.Sort)
	})
}

func TestCursorToken(t *testing.T) {
	state := QueryState{Page: 1, SortBy: SortByPrice, Order: Desc, Category: "beauty"}

	token, err := EncodeCursor(state, Cursor{ID: "004", Value: 12.5})
	assert.NoError(t, err)

	c, err := DecodeCursor(token, state)
	assert.NoError(t, err)
	assert.Equal(t, &Cursor{ID: "004", Value: 12.5}, c)

	other := state
	other.Category = "groceries"
	_, err = DecodeCursor(token, other)
	assert.ErrorIs(t, err, ErrCursorMismatch)

	_, err = DecodeCursor("%%%not-base64", state)
	assert.Error(t, err)
}
