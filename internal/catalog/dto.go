package catalog

// ProductDTO is one entry of the remote catalog. Fields the storefront does
// not render are ignored on decode.
type ProductDTO struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Thumbnail          string  `json:"thumbnail"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
}

// ProductsResponse is the body of GET /products. Products is nil when the
// field is absent or null, which the client treats as a bad response.
type ProductsResponse struct {
	Products *[]ProductDTO `json:"products"`
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}
