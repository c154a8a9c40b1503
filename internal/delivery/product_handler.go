package delivery

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

const adminPath = "/admin"

// ImageSaver stores an uploaded product image and returns its public URL.
type ImageSaver interface {
	Save(r io.Reader) (string, error)
}

type ProductHandler struct {
	useCase usecase.ProductUseCase
	images  ImageSaver
	log     *logrus.Logger
}

// NewProductHandler accepts a nil ImageSaver; uploaded files are then ignored.
func NewProductHandler(uc usecase.ProductUseCase, images ImageSaver, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		images:  images,
		log:     logger,
	}
}

// RegisterRoutes expects the admin group.
func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("", h.Overview)
	router.POST("/add", h.CreateProduct)
	router.POST("/edit/:id", h.UpdateProduct)
	router.POST("/delete/:id", h.DeleteProduct)
}

type adminPage struct {
	*domain.AdminOverview
	Flashes []string `json:"flashes"`
}

func (h *ProductHandler) Overview(c *gin.Context) {
	overview, err := h.useCase.Overview(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to load admin overview: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}
	flashes, err := session.FromContext(c).Flashes()
	if err != nil {
		h.log.Warnf("Failed to consume flash messages: %v", err)
	}
	SuccessResponse(c, http.StatusOK, "Admin overview retrieved successfully", adminPage{AdminOverview: overview, Flashes: flashes})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	in, ok := h.bindProduct(c)
	if !ok {
		return
	}

	id, err := h.useCase.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "Failed to create product", err)
		return
	}

	h.log.Infof("Product created successfully: ID %d, Name %s", id, in.Name)
	c.Redirect(http.StatusFound, adminPath)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.log.Warnf("Invalid product ID parameter for update: %s", c.Param("id"))
		return
	}
	in, ok := h.bindProduct(c)
	if !ok {
		return
	}

	if err := h.useCase.UpdateProduct(c.Request.Context(), id, in); err != nil {
		h.fail(c, "Failed to update product", err)
		return
	}

	h.log.Infof("Product updated successfully: ID %d", id)
	c.Redirect(http.StatusFound, adminPath)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.log.Warnf("Invalid product ID parameter for delete: %s", c.Param("id"))
		return
	}

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete product", err)
		return
	}

	h.log.Infof("Product deleted successfully: ID %d", id)
	c.Redirect(http.StatusFound, adminPath)
}

func (h *ProductHandler) bindProduct(c *gin.Context) (domain.ProductInput, bool) {
	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("Failed to bind product form: %v", err)
		h.fail(c, "Invalid product form", domain.NewValidationError("form", err.Error()))
		return domain.ProductInput{}, false
	}

	in, err := form.toInput(c)
	if err != nil {
		h.fail(c, "Invalid product form", err)
		return domain.ProductInput{}, false
	}

	if h.images == nil {
		return in, true
	}
	file, err := c.FormFile("image")
	if err != nil {
		// no upload in this submission
		return in, true
	}
	src, err := file.Open()
	if err != nil {
		h.fail(c, "Failed to read uploaded image", err)
		return domain.ProductInput{}, false
	}
	defer src.Close()

	url, err := h.images.Save(src)
	if err != nil {
		h.fail(c, "Failed to store uploaded image", err)
		return domain.ProductInput{}, false
	}
	in.ImageURL = &url
	return in, true
}

func (h *ProductHandler) fail(c *gin.Context, msg string, err error) {
	failWithFlash(c, h.log, adminPath, msg, err)
}

// failWithFlash turns client-correctable errors into a flash message and a
// redirect back to the form; anything else is rendered as an error envelope.
func failWithFlash(c *gin.Context, log *logrus.Logger, back, msg string, err error) {
	status := mapErrorToStatus(err)
	if status != http.StatusBadRequest && status != http.StatusConflict {
		log.Errorf("%s: %v", msg, err)
		ErrorResponse(c, status, msg+": "+err.Error())
		return
	}

	log.Warnf("%s: %v", msg, err)
	if fErr := session.FromContext(c).AddFlash(msg + ": " + err.Error()); fErr != nil {
		log.Errorf("Failed to store flash message: %v", fErr)
	}
	c.Redirect(http.StatusFound, back)
}
