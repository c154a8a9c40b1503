package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/session"
	"storefront/internal/usecase"
)

type PaymentHandler struct {
	useCase usecase.CheckoutUseCase
	log     *logrus.Logger
}

func NewPaymentHandler(uc usecase.CheckoutUseCase, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/create-payment", h.CreatePayment)
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	checkout, err := h.useCase.CreatePayment(c.Request.Context(), session.FromContext(c))
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create payment: %v", err)
		ErrorResponse(c, statusCode, "Failed to create payment: "+err.Error())
		return
	}

	h.log.Infof("Payment session created successfully: ID %s", checkout.ID)
	SuccessResponse(c, http.StatusCreated, "Payment session created successfully", checkout)
}
