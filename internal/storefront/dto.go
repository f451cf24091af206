package storefront

import (
	"github.com/jcmexdev/storefront/internal/cart/domain"
	"github.com/jcmexdev/storefront/internal/catalog"
)

type ProductResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Thumbnail       string `json:"thumbnail"`
	Price           int64  `json:"price"`
	OriginalPrice   int64  `json:"original_price"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
}

type ProductsResponse struct {
	State    string            `json:"state"`
	Message  string            `json:"message,omitempty"`
	Products []ProductResponse `json:"products"`
}

type CartItemResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice int64              `json:"total_price"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProducts(snap catalog.Snapshot) ProductsResponse {
	out := ProductsResponse{
		State:    snap.State.String(),
		Message:  snap.Message,
		Products: make([]ProductResponse, len(snap.Products)),
	}
	for i, p := range snap.Products {
		out.Products[i] = ProductResponse{
			ID:              p.ID,
			Name:            p.Name,
			Thumbnail:       p.Thumbnail,
			Price:           p.Price,
			OriginalPrice:   p.OriginalPrice,
			DiscountPercent: p.DiscountPercent,
		}
	}
	return out
}

func mapCart(items domain.Cart) CartResponse {
	out := CartResponse{
		Items:      make([]CartItemResponse, len(items)),
		TotalItems: items.TotalItems(),
		TotalPrice: items.TotalPrice(),
	}
	for i, it := range items {
		out.Items[i] = CartItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Subtotal: it.Subtotal(),
		}
	}
	return out
}
