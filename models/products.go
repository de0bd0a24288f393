package models

import (
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product is read-only from the API. Fields the catalogue carries beyond the
// known ones are kept in Extra and passed through untouched.
type Product struct {
	Id          string   `bson:"_id" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Category    string   `bson:"category" json:"category"`
	Price       float64  `bson:"price" json:"price"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Rating      *float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	Stock       *int     `bson:"stock,omitempty" json:"stock,omitempty"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
	Extra       bson.M   `bson:",inline" json:"-"`
}

type productAlias Product

// MarshalJSON renders the known fields and then any extra document fields
// that don't collide with them.
func (p Product) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(productAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}
	out := map[string]any{}
	for k, v := range p.Extra {
		out[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		out[k] = v
	}
	return json.Marshal(out)
}

var knownProductFields = map[string]bool{
	"id": true, "title": true, "category": true, "price": true, "description": true,
	"tags": true, "rating": true, "stock": true, "images": true,
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var a productAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k, v := range all {
		if knownProductFields[k] {
			continue
		}
		if a.Extra == nil {
			a.Extra = bson.M{}
		}
		a.Extra[k] = v
	}
	*p = Product(a)
	return nil
}

// CategoryList is the single document holding every category name.
type CategoryList struct {
	Id         string   `bson:"_id" json:"-"`
	Categories []string `bson:"categories" json:"categories"`
}

const CategoryListID = "allCategories"

// ErrNotFound is returned by stores when the addressed document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a unique key (e.g. a user's email) already exists.
var ErrDuplicate = errors.New("duplicate key")
