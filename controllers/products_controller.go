package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/catalog"
)

// GetProducts serves one page of the catalog. Query parameters: page, query,
// category, sortBy, order and the optional cursor from a previous response.
func (a *App) GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := catalog.NewQueryState(
			c.Query("page"),
			c.Query("sortBy"),
			c.Query("order"),
			c.Query("category"),
			c.Query("query"),
		)
		state.Cursor = c.Query("cursor")

		page, err := a.Catalog.ListProducts(c.Request.Context(), state)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func (a *App) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := a.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
