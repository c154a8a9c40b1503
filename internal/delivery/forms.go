package delivery

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// ProductForm is the admin create/edit submission. Per-flavor stock arrives
// as stock_<flavor id> fields, read separately.
type ProductForm struct {
	Name        string   `form:"name" binding:"required"`
	Description string   `form:"description"`
	Price       string   `form:"price" binding:"required"`
	ImageURL    string   `form:"image_url"`
	Category    string   `form:"category" binding:"required"`
	Flavors     []string `form:"flavors"`
}

func (f ProductForm) toInput(c *gin.Context) (domain.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return domain.ProductInput{}, domain.NewValidationError("price", "must be a number")
	}

	in := domain.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Category:    f.Category,
		FlavorStock: make(map[int64]int, len(f.Flavors)),
	}
	if url := strings.TrimSpace(f.ImageURL); url != "" {
		in.ImageURL = &url
	}

	for _, raw := range f.Flavors {
		raw = strings.TrimSpace(raw)
		fid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		in.FlavorStock[fid] = stockValue(c.PostForm("stock_" + raw))
	}
	return in, nil
}

// stockValue treats an absent or malformed stock field as 0.
func stockValue(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type FlavorForm struct {
	Name string `form:"name"`
}
