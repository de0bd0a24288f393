package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/auth"
	"github.com/princinho/storefront/dto"
	"github.com/princinho/storefront/middleware"
)

const (
	refreshCookie     = "refreshToken"
	refreshCookiePath = "/auth"
)

func (a *App) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badBody(c, err)
			return
		}
		session, err := a.Auth.SignUp(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		a.writeSession(c, http.StatusCreated, session)
	}
}

func (a *App) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badBody(c, err)
			return
		}
		session, err := a.Auth.SignIn(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		a.writeSession(c, http.StatusOK, session)
	}
}

func (a *App) Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(refreshCookie)
		session, err := a.Auth.Refresh(c.Request.Context(), token)
		if err != nil {
			a.clearRefreshCookie(c)
			respondError(c, err)
			return
		}
		a.writeSession(c, http.StatusOK, session)
	}
}

func (a *App) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(refreshCookie)
		a.Auth.SignOut(c.Request.Context(), token)
		a.clearRefreshCookie(c)
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "Signed out"})
	}
}

// Me must run behind middleware.AuthMiddleware.
func (a *App) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":   c.GetString(middleware.UserIDKey),
			"email": c.GetString(middleware.EmailKey),
		})
	}
}

func (a *App) writeSession(c *gin.Context, status int, s *auth.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookie,
		Value:    s.RefreshToken,
		Path:     refreshCookiePath,
		Domain:   a.Cookie.Domain,
		MaxAge:   int(s.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.Cookie.Secure,
		SameSite: a.sameSite(),
	})
	c.JSON(status, dto.TokenResponse{
		AccessToken: s.AccessToken,
		ExpiresIn:   int64(s.AccessTTL.Seconds()),
	})
}

func (a *App) clearRefreshCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     refreshCookiePath,
		Domain:   a.Cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.Cookie.Secure,
		SameSite: a.sameSite(),
	})
}

// SameSite=None is only accepted by browsers on secure cookies.
func (a *App) sameSite() http.SameSite {
	if a.Cookie.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
