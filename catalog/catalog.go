// Package catalog serves the read-only storefront data: products, orders,
// FAQs and reviews.
package catalog

import (
	"context"
	"time"

	"github.com/norun9/dressco-storefront/cart"
)

// OrderItem is one purchased line of an order.
type OrderItem struct {
	ProductID string  `json:"productId" yaml:"product_id"`
	Name      string  `json:"name" yaml:"name"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	Price     float64 `json:"price" yaml:"price"`
	Size      string  `json:"size,omitempty" yaml:"size,omitempty"`
	Color     string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Order is a placed order as shown on the account page.
type Order struct {
	ID        string      `json:"id" yaml:"id"`
	UserID    string      `json:"userId" yaml:"user_id"`
	Items     []OrderItem `json:"items" yaml:"items"`
	Total     float64     `json:"total" yaml:"total"`
	Status    string      `json:"status" yaml:"status"`
	CreatedAt time.Time   `json:"createdAt" yaml:"created_at"`
}

// FAQ is a question shown in the help accordion.
type FAQ struct {
	ID       string `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Position int    `json:"position" yaml:"position"`
}

// Review is a customer review of a product.
type Review struct {
	ID        string    `json:"id" yaml:"id"`
	ProductID string    `json:"productId" yaml:"product_id"`
	Author    string    `json:"author" yaml:"author"`
	Rating    int       `json:"rating" yaml:"rating"`
	Comment   string    `json:"comment" yaml:"comment"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Filter narrows ListProducts.
type Filter struct {
	Category string
	Query    string
}

// ProductLookup resolves a product id to a snapshot, or nil when absent.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*cart.Product, error)
}

// Catalog is the storefront's read model.
type Catalog interface {
	ProductLookup
	ListProducts(ctx context.Context, f Filter) ([]cart.Product, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]Order, error)
	GetFAQs(ctx context.Context) ([]FAQ, error)
	GetReviews(ctx context.Context, productID string) ([]Review, error)
	CountReviews(ctx context.Context) (int, error)
	CountOrders(ctx context.Context) (int, error)
}
