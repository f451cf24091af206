package storefront

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/jcmexdev/storefront/internal/cart/domain"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome  = "home.html"
	pageCart  = "cart.html"
	pageError = "error.html"
)

// StoreName is shown in the header and page titles.
const StoreName = "Cửa hàng"

// layoutData is what templates/layout.html renders around every page.
type layoutData struct {
	StoreName string
	Title     string
	CartCount int
	Refresh   int // seconds; 0 = no meta refresh
	Page      any
}

type homePage struct {
	Loading  bool
	Error    string
	Products []catalog.DisplayProduct
}

type cartLine struct {
	domain.CartItem
	Dec, Inc       int
	CanDec, CanInc bool
}

type cartPage struct {
	Lines      []cartLine
	TotalPrice int64
}

type errorPage struct {
	Status  int
	Message string
}

type views struct {
	pages map[string]*template.Template
}

func parseViews() (*views, error) {
	funcs := template.FuncMap{
		"vnd": money.FormatVND,
	}
	v := &views{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageHome, pageCart, pageError} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("storefront: parse %s: %w", page, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written 200 behind.
func (v *views) render(w http.ResponseWriter, status int, page string, data layoutData) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("storefront: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("storefront: render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func newCartPage(items domain.Cart) cartPage {
	lines := make([]cartLine, len(items))
	for i, it := range items {
		lines[i] = cartLine{
			CartItem: it,
			Dec:      it.Quantity - 1,
			Inc:      it.Quantity + 1,
			CanDec:   it.Quantity > domain.MinQuantity,
			CanInc:   it.Quantity < domain.MaxQuantity,
		}
	}
	return cartPage{Lines: lines, TotalPrice: items.TotalPrice()}
}
