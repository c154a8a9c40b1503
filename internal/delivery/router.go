package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/middleware"
	"storefront/internal/session"
)

type Handlers struct {
	Catalog *CatalogHandler
	Cart    *CartHandler
	Auth    *AuthHandler
	Product *ProductHandler
	Flavor  *FlavorHandler
	Payment *PaymentHandler
	Health  *HealthHandler
}

// SetupRouter mounts every handler. uploadDir is served under /uploads when
// non-empty.
func SetupRouter(h Handlers, sessions *session.Manager, uploadDir string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger), gin.Recovery())

	h.Health.RegisterRoutes(router)
	if uploadDir != "" {
		router.Static("/uploads", uploadDir)
	}

	site := router.Group("/")
	site.Use(sessions.Middleware())
	{
		h.Catalog.RegisterRoutes(site)
		h.Cart.RegisterRoutes(site)
		h.Auth.RegisterRoutes(site)
		h.Payment.RegisterRoutes(site)

		admin := site.Group("/admin")
		admin.Use(middleware.RequireAdmin("/login", logger))
		{
			h.Product.RegisterRoutes(admin)
			h.Flavor.RegisterRoutes(admin)
		}
	}
	return router
}
