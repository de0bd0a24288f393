package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/middleware"
)

func (a *App) Routes(r gin.IRouter) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/categories", a.GetCategories())
	r.GET("/products", a.GetProducts())
	r.GET("/product/:id", a.GetProduct())
	r.GET("/product/:id/reviews", a.GetProductReviews())

	r.POST("/reviews", a.AddReview())
	r.PUT("/reviews", a.EditReview())
	r.DELETE("/reviews", a.DeleteReview())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", a.Signup())
		authGroup.POST("/login", a.Login())
		authGroup.POST("/refresh", a.Refresh())
		authGroup.POST("/logout", a.Logout())
		authGroup.GET("/me", middleware.AuthMiddleware(a.Auth), a.Me())
	}
}
