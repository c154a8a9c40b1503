package db

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Row maps column name to the driver value. []byte values are already
// converted to string.
type Row map[string]any

func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// NullString returns nil for SQL NULL.
func (r Row) NullString(col string) *string {
	if r[col] == nil {
		return nil
	}
	s := r.String(col)
	return &s
}

func (r Row) Decimal(col string) decimal.Decimal {
	switch v := r[col].(type) {
	case int64:
		return decimal.NewFromInt(v)
	case int32:
		return decimal.NewFromInt32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}
