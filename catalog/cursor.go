package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/princinho/storefront/models"
)

// ErrNoCursor means the pages before the requested one hold no documents, so
// the requested page is empty.
var ErrNoCursor = errors.New("no documents before requested page")

// ResolveCursor finds where page starts. The store only offers forward,
// document relative cursors, so page N re-reads the first (N-1)*PageSize
// documents of the same filtered and sorted query and resumes after the last
// one. That read grows linearly with N; the opaque cursor token avoids it.
func ResolveCursor(ctx context.Context, store Store, q Query, page int) (*Cursor, error) {
	if page <= 1 {
		return nil, nil
	}

	prev := q
	prev.Filters = append([]Predicate(nil), q.Filters...)
	// Past this the limit overflows int, and no catalogue is that large.
	if page-1 > math.MaxInt/PageSize {
		return nil, ErrNoCursor
	}
	prev.Limit = (page - 1) * PageSize
	prev.StartAfter = nil

	docs, err := store.FindProducts(ctx, prev)
	if err != nil {
		return nil, fmt.Errorf("resolve cursor for page %d: %w", page, err)
	}
	if len(docs) == 0 {
		return nil, ErrNoCursor
	}
	c := CursorFor(q.Sort, docs[len(docs)-1])
	return &c, nil
}

// CursorFor builds the cursor that resumes after p under sort.
func CursorFor(sort Sort, p models.Product) Cursor {
	c := Cursor{ID: p.Id}
	if sort.Field == FieldPrice {
		c.Value = p.Price
	}
	return c
}
