package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/pkg/db"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

func mapErrorToStatus(err error) int {
	var (
		vErr *domain.ValidationError
		pErr *domain.PaymentProviderError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCartFull), db.IsUniqueViolation(err), db.IsForeignKeyViolation(err):
		return http.StatusConflict
	case db.IsCheckViolation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &pErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// parseID reads a positive integer path parameter. On failure the 400
// response is already written.
func parseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+param+" format")
		return 0, false
	}
	return id, true
}
