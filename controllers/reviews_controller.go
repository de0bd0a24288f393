package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/apperr"
	"github.com/princinho/storefront/dto"
	"github.com/princinho/storefront/models"
	"github.com/princinho/storefront/utils"
)

func (a *App) GetProductReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := a.Reviews.List(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = make([]models.Review, 0)
		}
		c.JSON(http.StatusOK, gin.H{"reviews": list})
	}
}

// AddReview takes the credential from the body token first, then from an
// Authorization bearer header. A header that is present but not a bearer
// credential is rejected rather than treated as anonymous.
func (a *App) AddReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.AddReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c, err)
			return
		}

		credential := req.Token
		if header := c.GetHeader("Authorization"); credential == "" && header != "" {
			token, err := utils.BearerToken(header)
			if err != nil {
				respondError(c, apperr.Wrap(apperr.Unauthorized, "invalid authorization header", err))
				return
			}
			credential = token
		}

		if _, err := a.Reviews.Add(c.Request.Context(), req, credential); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review added successfully"})
	}
}

func (a *App) EditReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.EditReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c, err)
			return
		}
		if err := a.Reviews.Edit(c.Request.Context(), req); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review updated successfully"})
	}
}

func (a *App) DeleteReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.DeleteReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c, err)
			return
		}
		if err := a.Reviews.Delete(c.Request.Context(), req); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review deleted successfully"})
	}
}
