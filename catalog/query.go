package catalog

import (
	"unicode/utf8"

	"github.com/princinho/storefront/utils"
	"golang.org/x/text/unicode/norm"
)

// PageSize is fixed; callers cannot change it.
const PageSize = 20

const (
	FieldID       = "_id"
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldPrice    = "price"
)

// prefixSentinel closes the "starts with" range on title. The store only
// supports range comparisons, so s <= title <= s+sentinel selects prefixes.
var prefixSentinel = string(utf8.MaxRune)

type SortField string

const (
	SortByID    SortField = "id"
	SortByPrice SortField = "price"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// QueryState is the normalised form of a product listing request.
type QueryState struct {
	Page     int
	SortBy   SortField
	Order    Order
	Category string
	Search   string
	// Cursor is an opaque token from a previous page. When set it replaces the
	// page based cursor derivation.
	Cursor string
}

// NewQueryState coerces raw request values. Anything that is not a positive
// integer page becomes 1, unknown sort fields become id, and sorting by id is
// always ascending.
func NewQueryState(page, sortBy, order, category, search string) QueryState {
	s := QueryState{
		Page:     1,
		SortBy:   SortByID,
		Order:    Asc,
		Category: category,
		Search:   norm.NFC.String(search),
	}
	if n := utils.ParseIntDefault(page, 1); n > 0 {
		s.Page = n
	}
	if SortField(sortBy) == SortByPrice {
		s.SortBy = SortByPrice
		if Order(order) == Desc {
			s.Order = Desc
		}
	}
	return s
}

type Op int

const (
	OpEq Op = iota
	OpGte
	OpLte
)

type Predicate struct {
	Field string
	Op    Op
	Value any
}

type Sort struct {
	Field string
	Desc  bool
}

// Cursor marks "resume after this document" in a given sort order. Value is
// the document's sort key and is nil when sorting by identifier.
type Cursor struct {
	ID    string
	Value any
}

// Query is a store neutral description of one product read. Predicates are
// conjunctive. Stores order by (Sort.Field, _id asc).
type Query struct {
	Filters    []Predicate
	Sort       Sort
	Limit      int
	StartAfter *Cursor
}

// BuildQuery translates the request state into a query for one page. It has
// no cursor; see ResolveCursor.
func BuildQuery(s QueryState) Query {
	q := Query{Limit: PageSize}

	if s.Search != "" {
		q.Filters = append(q.Filters,
			Predicate{Field: FieldTitle, Op: OpGte, Value: s.Search},
			Predicate{Field: FieldTitle, Op: OpLte, Value: s.Search + prefixSentinel},
		)
	}
	if s.Category != "" {
		q.Filters = append(q.Filters, Predicate{Field: FieldCategory, Op: OpEq, Value: s.Category})
	}

	switch s.SortBy {
	case SortByPrice:
		q.Sort = Sort{Field: FieldPrice, Desc: s.Order == Desc}
	default:
		q.Sort = Sort{Field: FieldID}
	}
	return q
}
