package cart

import "github.com/shopspring/decimal"

// Line is one cart entry for a product+size+color combination.
type Line struct {
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
	ID            string  `json:"cartItemId"`
}

// LineID derives the identity key of a line.
func LineID(productID, size, color string) string {
	return productID + "-" + size + "-" + color
}

// NewLine builds a line with its id derived from the product and selections.
func NewLine(product Product, quantity int, size, color string) Line {
	return Line{
		Product:       product,
		Quantity:      quantity,
		SelectedSize:  size,
		SelectedColor: color,
		ID:            LineID(product.ID, size, color),
	}
}

// Total is unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Product.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
