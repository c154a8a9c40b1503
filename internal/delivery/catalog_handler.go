package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/usecase"
)

const allProductsTitle = "Todos os Produtos"

type CatalogHandler struct {
	useCase usecase.CatalogUseCase
	log     *logrus.Logger
}

func NewCatalogHandler(uc usecase.CatalogUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.ListProducts)
	router.GET("/category/:name", h.ListByCategory)
	router.GET("/categories", h.ListCategories)
}

type catalogPage struct {
	Title    string               `json:"title"`
	Products []domain.ProductView `json:"products"`
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	h.render(c, nil, allProductsTitle)
}

func (h *CatalogHandler) ListByCategory(c *gin.Context) {
	name := c.Param("name")
	h.render(c, &name, name)
}

func (h *CatalogHandler) render(c *gin.Context, category *string, title string) {
	products, err := h.useCase.ListProducts(c.Request.Context(), category)
	if err != nil {
		h.log.Errorf("Failed to list catalog products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}
	if products == nil {
		products = []domain.ProductView{}
	}

	h.log.Infof("Retrieved %d catalog products", len(products))
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", catalogPage{Title: title, Products: products})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve categories: "+err.Error())
		return
	}
	if categories == nil {
		categories = []string{}
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}
