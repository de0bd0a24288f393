package database

import (
	"testing"

	"github.com/princinho/storefront/catalog"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestToFilter(t *testing.T) {
	tests := []struct {
		name  string
		query catalog.Query
		want  bson.M
	}{
		{
			name:  "no filters",
			query: catalog.BuildQuery(catalog.NewQueryState("1", "id", "asc", "", "")),
			want:  bson.M{},
		},
		{
			name:  "category equality",
			query: catalog.BuildQuery(catalog.NewQueryState("1", "id", "asc", "beauty", "")),
			want:  bson.M{"$and": bson.A{bson.M{"category": "beauty"}}},
		},
		{
			name: "search prefix and id cursor",
			query: catalog.Query{
				Filters: []catalog.Predicate{
					{Field: "title", Op: catalog.OpGte, Value: "Ess"},
					{Field: "title", Op: catalog.OpLte, Value: "Ess\U0010FFFF"},
				},
				Sort:       catalog.Sort{Field: catalog.FieldID},
				StartAfter: &catalog.Cursor{ID: "020"},
			},
			want: bson.M{"$and": bson.A{
				bson.M{"title": bson.M{"$gte": "Ess"}},
				bson.M{"title": bson.M{"$lte": "Ess\U0010FFFF"}},
				bson.M{"_id": bson.M{"$gt": "020"}},
			}},
		},
		{
			name: "price desc cursor breaks ties on id",
			query: catalog.Query{
				Sort:       catalog.Sort{Field: catalog.FieldPrice, Desc: true},
				StartAfter: &catalog.Cursor{ID: "007", Value: 9.99},
			},
			want: bson.M{"$and": bson.A{
				bson.M{"$or": bson.A{
					bson.M{"price": bson.M{"$lt": 9.99}},
					bson.M{"price": 9.99, "_id": bson.M{"$gt": "007"}},
				}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToFilter(tt.query))
		})
	}
}

func TestToSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, ToSort(catalog.Sort{Field: catalog.FieldID}))
	assert.Equal(t,
		bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
		ToSort(catalog.Sort{Field: catalog.FieldPrice, Desc: true}),
	)
}
