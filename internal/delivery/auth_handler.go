package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/session"
	"storefront/internal/usecase"
)

type AuthHandler struct {
	useCase usecase.AuthUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Login page", gin.H{
		"authenticated": session.FromContext(c).Authenticated(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("Failed to bind login form: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ok, err := h.useCase.Login(session.FromContext(c), form.Username, form.Password)
	if err != nil {
		h.log.Errorf("Login failed with error: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to log in: "+err.Error())
		return
	}
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials. Please try again.")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.useCase.Logout(session.FromContext(c)); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to log out: "+err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/")
}
