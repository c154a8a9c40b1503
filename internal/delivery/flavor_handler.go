package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

const flavorsPath = "/admin/flavors"

type FlavorHandler struct {
	useCase usecase.FlavorUseCase
	log     *logrus.Logger
}

func NewFlavorHandler(uc usecase.FlavorUseCase, logger *logrus.Logger) *FlavorHandler {
	return &FlavorHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes expects the admin group.
func (h *FlavorHandler) RegisterRoutes(router gin.IRouter) {
	flavors := router.Group("/flavors")
	{
		flavors.GET("", h.ListFlavors)
		flavors.POST("/add", h.CreateFlavor)
		flavors.POST("/delete/:id", h.DeleteFlavor)
	}
}

type flavorsPage struct {
	Flavors []domain.Flavor `json:"flavors"`
	Flashes []string        `json:"flashes"`
}

func (h *FlavorHandler) ListFlavors(c *gin.Context) {
	flavors, err := h.useCase.ListFlavors(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list flavors: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve flavors: "+err.Error())
		return
	}
	if flavors == nil {
		flavors = []domain.Flavor{}
	}
	flashes, err := session.FromContext(c).Flashes()
	if err != nil {
		h.log.Warnf("Failed to consume flash messages: %v", err)
	}
	SuccessResponse(c, http.StatusOK, "Flavors retrieved successfully", flavorsPage{Flavors: flavors, Flashes: flashes})
}

func (h *FlavorHandler) CreateFlavor(c *gin.Context) {
	var form FlavorForm
	if err := c.ShouldBind(&form); err != nil {
		failWithFlash(c, h.log, flavorsPath, "Invalid flavor form", domain.NewValidationError("form", err.Error()))
		return
	}

	if err := h.useCase.CreateFlavor(c.Request.Context(), form.Name); err != nil {
		failWithFlash(c, h.log, flavorsPath, "Failed to create flavor", err)
		return
	}
	c.Redirect(http.StatusFound, flavorsPath)
}

func (h *FlavorHandler) DeleteFlavor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.log.Warnf("Invalid flavor ID parameter for delete: %s", c.Param("id"))
		return
	}

	if err := h.useCase.DeleteFlavor(c.Request.Context(), id); err != nil {
		failWithFlash(c, h.log, flavorsPath, "Failed to delete flavor", err)
		return
	}

	h.log.Infof("Flavor deleted successfully: ID %d", id)
	c.Redirect(http.StatusFound, flavorsPath)
}
