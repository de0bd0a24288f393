package catalog

import "github.com/princinho/storefront/models"

// Page is the listing response. A nil LastDoc means there is no next page:
// the page is empty or shorter than PageSize.
type Page struct {
	Products   []models.Product `json:"products"`
	LastDoc    *string          `json:"lastDoc"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Assemble keeps docs in query order and passes their fields through as is.
func Assemble(docs []models.Product) Page {
	p := Page{Products: docs}
	if p.Products == nil {
		p.Products = make([]models.Product, 0)
	}
	if len(docs) >= PageSize {
		id := docs[len(docs)-1].Id
		p.LastDoc = &id
	}
	return p
}
