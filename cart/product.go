package cart

import "github.com/shopspring/decimal"

// ColorVariant is one color a product is offered in.
type ColorVariant struct {
	Name   string   `json:"name" yaml:"name"`
	Hex    string   `json:"hex,omitempty" yaml:"hex,omitempty"`
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// Product is a catalog snapshot. Lines hold a copy taken at add time, so later
// catalog price changes do not affect an existing cart.
type Product struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Price       float64        `json:"price" yaml:"price"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Images      []string       `json:"images,omitempty" yaml:"images,omitempty"`
	Sizes       []string       `json:"sizes" yaml:"sizes"`
	Colors      []ColorVariant `json:"colors" yaml:"colors"`
}

// UnitPrice returns the price as a decimal so sums do not accumulate float error.
func (p Product) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(p.Price)
}

// HasSize reports whether size is one of the offered sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether a color variant with the given name exists.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c.Name == color {
			return true
		}
	}
	return false
}
