package handler

import (
	"net/http"

	"hidetrade/internal/service"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Login authenticates a back-office account
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginInput  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Cookie for browser sessions; the token in the body serves API
	// clients that prefer the Authorization header.
	c.SetCookie("access_token", token.Token, 60*60*24, "/", "", false, true)
	c.JSON(http.StatusOK, response.OK("login successful", token))
}

// Logout clears the session cookie
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, response.OK("logged out", nil))
}
