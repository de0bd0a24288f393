package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/apperr"
	"github.com/princinho/storefront/auth"
	"github.com/princinho/storefront/catalog"
	"github.com/princinho/storefront/config"
	"github.com/princinho/storefront/dto"
	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/reviews"
	"go.uber.org/zap"
)

type App struct {
	Catalog *catalog.Service
	Reviews *reviews.Service
	Auth    *auth.Service
	Cookie  config.CookieConfig
}

// respondError writes {"error": msg}. Anything that is not an *apperr.Error
// becomes a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.FromContext(c).Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}
	if appErr.Kind == apperr.Internal && appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.JSON(appErr.HTTPStatus(), dto.ErrorResponse{Error: appErr.Message()})
}

func badBody(c *gin.Context, err error) {
	logger.FromContext(c).Debug("request body rejected", zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
}
