package catalog

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

var ErrCursorMismatch = errors.New("cursor does not match the current filter or sort")

type cursorToken struct {
	ID       string    `json:"id"`
	Value    any       `json:"value,omitempty"`
	SortBy   SortField `json:"sortBy"`
	Order    Order     `json:"order"`
	Category string    `json:"category,omitempty"`
	Search   string    `json:"search,omitempty"`
}

// EncodeCursor produces the opaque token handed back as nextCursor. It binds
// the cursor to the filter and sort it was minted for.
func EncodeCursor(s QueryState, c Cursor) (string, error) {
	b, err := json.Marshal(cursorToken{
		ID:       c.ID,
		Value:    c.Value,
		SortBy:   s.SortBy,
		Order:    s.Order,
		Category: s.Category,
		Search:   s.Search,
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(token string, s QueryState) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var t cursorToken
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	if t.ID == "" {
		return nil, errors.New("cursor has no document id")
	}
	if t.SortBy != s.SortBy || t.Order != s.Order || t.Category != s.Category || t.Search != s.Search {
		return nil, ErrCursorMismatch
	}
	c := &Cursor{ID: t.ID}
	if s.SortBy == SortByPrice {
		v, ok := t.Value.(float64)
		if !ok {
			return nil, errors.New("cursor has no price")
		}
		c.Value = v
	}
	return c, nil
}
