package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *App) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := a.Catalog.GetCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
