// Package storefront serves the web storefront: the product grid at / and
// the cart at /cart, with form posts that dispatch cart commands.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/cart/app"
	"github.com/jcmexdev/storefront/internal/cart/domain"
	"github.com/jcmexdev/storefront/internal/catalog"
)

// CartStore is the part of app.Store the handlers use.
type CartStore interface {
	AddToCart(ctx context.Context, p domain.Product) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, id, quantity int) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, id int) (domain.Cart, error)
	Items() domain.Cart
	TotalItems() int
}

// Catalog is the part of catalog.Loader the handlers use.
type Catalog interface {
	Start(ctx context.Context)
	Snapshot() catalog.Snapshot
	Lookup(id int) (catalog.DisplayProduct, bool)
}

const (
	msgNotFound    = "Không tìm thấy sản phẩm"
	msgBadRequest  = "Yêu cầu không hợp lệ"
	msgPersistFail = "Không lưu được giỏ hàng"
	msgInternal    = "Đã xảy ra lỗi"

	// loadingRefresh is how often the spinner page reloads itself.
	loadingRefresh = 1
)

// Handler renders pages and applies cart commands.
type Handler struct {
	cart    CartStore
	catalog Catalog
	views   *views
	log     *slog.Logger
}

// NewHandler parses the embedded templates. logger may be nil.
func NewHandler(cart CartStore, cat Catalog, logger *slog.Logger) (*Handler, error) {
	v, err := parseViews()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cart: cart, catalog: cat, views: v, log: logger}, nil
}

// Home starts the catalog fetch on first visit and renders whichever state
// the loader is in.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.catalog.Start(r.Context())
	snap := h.catalog.Snapshot()

	data := h.layout("Sản phẩm nổi bật", homePage{})
	switch snap.State {
	case catalog.Loading:
		data.Page = homePage{Loading: true}
		data.Refresh = loadingRefresh
	case catalog.Error:
		data.Page = homePage{Error: snap.Message}
	default:
		data.Page = homePage{Products: snap.Products}
	}
	h.render(w, r, http.StatusOK, pageHome, data)
}

// Cart renders the cart or the empty message.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	items := h.cart.Items()
	data := h.layout("Giỏ hàng", newCartPage(items))
	// Badge and lines from one copy, so a concurrent post can't split them.
	data.CartCount = items.TotalItems()
	h.render(w, r, http.StatusOK, pageCart, data)
}

// AddItem handles the "Thêm vào giỏ hàng" form.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PostFormValue("id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, msgBadRequest)
		return
	}

	product, ok := h.catalog.Lookup(id)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	if _, err := h.cart.AddToCart(r.Context(), product.Product()); err != nil {
		h.dispatchFailed(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// UpdateQuantity handles the −/+ buttons. Out-of-range values are clamped by
// the cart, not rejected.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, msgBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, msgBadRequest)
		return
	}

	if _, err := h.cart.UpdateQuantity(r.Context(), id, quantity); err != nil {
		h.dispatchFailed(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveItem handles the trash button.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, msgBadRequest)
		return
	}

	if _, err := h.cart.RemoveFromCart(r.Context(), id); err != nil {
		h.dispatchFailed(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// ListProducts is the JSON view of the catalog. It does not block on the
// fetch; clients poll while state is "loading".
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.catalog.Start(r.Context())
	writeJSON(w, http.StatusOK, mapProducts(h.catalog.Snapshot()))
}

// GetCart is the JSON view of the cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapCart(h.cart.Items()))
}

func (h *Handler) layout(title string, page any) layoutData {
	return layoutData{
		StoreName: StoreName,
		Title:     title,
		CartCount: h.cart.TotalItems(),
		Page:      page,
	}
}

func (h *Handler) dispatchFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "cart dispatch failed", "path", r.URL.Path, "error", err)
	msg := msgInternal
	if errors.Is(err, app.ErrPersist) {
		msg = msgPersistFail
	}
	h.renderError(w, r, http.StatusInternalServerError, msg)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, r, status, pageError, h.layout(msg, errorPage{Status: status, Message: msg}))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data layoutData) {
	if err := h.views.render(w, status, page, data); err != nil {
		h.log.ErrorContext(r.Context(), "render failed", "page", page, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
