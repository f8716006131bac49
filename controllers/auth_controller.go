package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	middlewares "master-data-service/middleware"
)

// authCookieMaxAge is the session lifetime in seconds (8 hours).
const authCookieMaxAge = 8 * 60 * 60

// AuthController issues and inspects the operator session cookie.
type AuthController struct {
	gate *middlewares.AuthGate
}

func NewAuthController(gate *middlewares.AuthGate) *AuthController {
	return &AuthController{gate: gate}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the configured credential pair and sets the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !ac.gate.IsValidLogin(req.Username, req.Password) {
		zap.L().Warn("Failed login attempt", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.gate.CookieName(), ac.gate.CookieValue(), authCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Session reports whether the request carries a valid session cookie.
func (ac *AuthController) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": ac.gate.IsAuthenticated(c.Request)})
}
