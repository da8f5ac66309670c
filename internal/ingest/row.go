package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MosaabBleik/catalog-service/internal/models"
)

// row gives typed access to one CSV record by column name.
type row struct {
	index  map[string]int
	values []string
}

func (r row) raw(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r row) str(col string) *string {
	v := r.raw(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r row) requiredString(col string) (string, error) {
	v := r.raw(col)
	if v == "" {
		return "", &FieldError{Column: col, Err: ErrMissingValue}
	}
	return v, nil
}

// id parses a required positive identifier.
func (r row) id(col string) (int64, error) {
	v := r.raw(col)
	if v == "" {
		return 0, &FieldError{Column: col, Err: ErrMissingValue}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &FieldError{Column: col, Value: v, Err: err}
	}
	if n < 1 {
		return 0, &FieldError{Column: col, Value: v, Err: fmt.Errorf("id must be positive")}
	}
	return n, nil
}

// optionalID treats blank and non-numeric references as absent.
func (r row) optionalID(col string) *int64 {
	n, err := strconv.ParseInt(r.raw(col), 10, 64)
	if err != nil || n < 1 {
		return nil
	}
	return &n
}

// optionalInt treats blank and non-numeric values as absent.
func (r row) optionalInt(col string) *int {
	n, err := strconv.Atoi(r.raw(col))
	if err != nil {
		return nil
	}
	return &n
}

func (r row) optionalFloat(col string) (*float64, error) {
	v := r.raw(col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &FieldError{Column: col, Value: v, Err: err}
	}
	return &f, nil
}

// money parses a non-negative decimal; blank is null.
func (r row) money(col string) (decimal.NullDecimal, error) {
	v := r.raw(col)
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, &FieldError{Column: col, Value: v, Err: err}
	}
	if !models.DecimalInRange(d) {
		return decimal.NullDecimal{}, &FieldError{Column: col, Value: v, Err: fmt.Errorf("exponent out of range")}
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, &FieldError{Column: col, Value: v, Err: fmt.Errorf("must not be negative")}
	}
	return decimal.NewNullDecimal(d), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (r row) optionalTime(col string) (*time.Time, error) {
	v := r.raw(col)
	if v == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &FieldError{Column: col, Value: v, Err: fmt.Errorf("unrecognized timestamp format")}
}
