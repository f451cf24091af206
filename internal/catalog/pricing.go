package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/cart/domain"
)

// DefaultFXRate converts one catalog currency unit to VND.
const DefaultFXRate int64 = 24500

var hundred = decimal.NewFromInt(100)

// DisplayProduct is a catalog entry priced in VND, ready to render.
type DisplayProduct struct {
	ID              int
	Name            string
	Thumbnail       string
	Price           int64 // after discount
	OriginalPrice   int64
	DiscountPercent int
	HasDiscount     bool
}

// Product is the cart-facing view: the discounted unit price is what the
// cart stores.
func (p DisplayProduct) Product() domain.Product {
	return domain.Product{ID: p.ID, Name: p.Name, Price: p.Price}
}

// ToDisplay prices dto in VND:
//
//	Price         = round(price × (1 − discount/100) × fx)
//	OriginalPrice = round(price × fx)
//
// Rounding is half away from zero.
func ToDisplay(dto ProductDTO, fx int64) DisplayProduct {
	rate := decimal.NewFromInt(fx)
	price := decimal.NewFromFloat(dto.Price)
	discount := decimal.NewFromFloat(dto.DiscountPercentage)

	factor := decimal.NewFromInt(1).Sub(discount.Div(hundred))

	return DisplayProduct{
		ID:              dto.ID,
		Name:            dto.Title,
		Thumbnail:       dto.Thumbnail,
		Price:           price.Mul(factor).Mul(rate).Round(0).IntPart(),
		OriginalPrice:   price.Mul(rate).Round(0).IntPart(),
		DiscountPercent: int(discount.Round(0).IntPart()),
		HasDiscount:     dto.DiscountPercentage > 0,
	}
}

// ToDisplayList maps dtos in order.
func ToDisplayList(dtos []ProductDTO, fx int64) []DisplayProduct {
	out := make([]DisplayProduct, len(dtos))
	for i, d := range dtos {
		out[i] = ToDisplay(d, fx)
	}
	return out
}
