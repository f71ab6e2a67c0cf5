package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategory = "General"
	maxDiscount     = 100
)

var ErrInvalidProduct = errors.New("invalid product")

type Product struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Discount    int    `json:"discount"`
}

// Price is an exact decimal amount encoded as a bare JSON number.
type Price struct {
	decimal.Decimal
}

func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{Decimal: d}, nil
}

func MustPrice(s string) Price {
	p, err := NewPrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	return p.Decimal.UnmarshalJSON(b)
}

// normalize applies defaults and validates a product before it is stored.
func normalize(p Product) (Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Product{}, fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return Product{}, fmt.Errorf("%w: negative price for %q", ErrInvalidProduct, p.Name)
	}
	if p.Discount < 0 || p.Discount > maxDiscount {
		return Product{}, fmt.Errorf("%w: discount %d out of range for %q", ErrInvalidProduct, p.Discount, p.Name)
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}
	return p, nil
}
