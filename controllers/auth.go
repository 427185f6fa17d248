package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ac.Auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	maxAge := int(ac.Auth.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, session.Token, maxAge, "/", "", ac.CookieSecure, true)

	utils.RespondWithData(c, http.StatusOK, session, "Login successful")
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, "", -1, "/", "", ac.CookieSecure, true)
	utils.RespondWithData(c, http.StatusOK, nil, "Logged out")
}

func (ac *AuthController) Me(c *gin.Context) {
	user, ok := utils.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "authenticated": false, "error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"user":          user,
	})
}
