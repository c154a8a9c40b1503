package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

type CartHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/add-to-cart", h.AddToCart)
	router.GET("/cart", h.ViewCart)
	router.GET("/clear-cart", h.ClearCart)
}

type cartPage struct {
	Items   []domain.CartItem `json:"items"`
	Total   decimal.Decimal   `json:"total"`
	Flashes []string          `json:"flashes"`
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	productID := c.PostForm("product_id")
	flavor := c.PostForm("flavorSelection")
	if flavor == "" {
		flavor = c.PostForm("flavor")
	}

	added, err := h.useCase.AddItem(c.Request.Context(), session.FromContext(c), productID, flavor)
	if errors.Is(err, domain.ErrCartFull) {
		failWithFlash(c, h.log, "/cart", "Could not add to cart", err)
		return
	}
	if err != nil {
		h.log.Errorf("Failed to add product '%s' to cart: %v", productID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add to cart: "+err.Error())
		return
	}
	if !added {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, "/cart")
}

func (h *CartHandler) ViewCart(c *gin.Context) {
	state := session.FromContext(c)
	items, total := h.useCase.ViewCart(state)
	flashes, err := state.Flashes()
	if err != nil {
		h.log.Warnf("Failed to consume flash messages: %v", err)
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", cartPage{Items: items, Total: total, Flashes: flashes})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.useCase.Clear(session.FromContext(c)); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to clear cart: "+err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/")
}
