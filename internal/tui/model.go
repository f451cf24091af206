// Package tui is the terminal storefront: a catalog page and a cart page
// over the same cart store the web server uses.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jcmexdev/storefront/internal/cart/domain"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/money"
)

// Page is the visible page.
type Page int

const (
	CatalogPage Page = iota
	CartPage
)

const (
	storeName  = "Cửa hàng"
	emptyCart  = "Giỏ hàng trống!"
	persistErr = "Không lưu được giỏ hàng"
)

// CartStore is the part of app.Store the UI drives.
type CartStore interface {
	AddToCart(ctx context.Context, p domain.Product) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, id, quantity int) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, id int) (domain.Cart, error)
	Items() domain.Cart
	TotalItems() int
	TotalPrice() int64
}

// Catalog loads the product list once.
type Catalog interface {
	Load(ctx context.Context) (catalog.Snapshot, error)
}

type catalogLoadedMsg struct {
	snap catalog.Snapshot
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	store   CartStore
	catalog Catalog

	snap    catalog.Snapshot
	page    Page
	cursors [2]int
	status  string

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  Styles
	width   int
	height  int
}

// New returns a model in the Loading state. ctx scopes store writes and
// the catalog fetch.
func New(ctx context.Context, store CartStore, cat Catalog) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Brand)

	return Model{
		ctx:     ctx,
		store:   store,
		catalog: cat,
		snap:    catalog.Snapshot{State: catalog.Loading},
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		styles:  DefaultStyles(),
		width:   80,
		height:  24,
	}
}

// Init kicks off the spinner and the fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCatalog())
}

func (m Model) fetchCatalog() tea.Cmd {
	ctx, cat := m.ctx, m.catalog
	return func() tea.Msg {
		snap, _ := cat.Load(ctx)
		return catalogLoadedMsg{snap: snap}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.snap.State != catalog.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catalogLoadedMsg:
		m.snap = msg.snap
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchPage):
		m.page = 1 - m.page
		m.status = ""
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.cursors[m.page]--
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursors[m.page]++
		m.clampCursor()
		return m, nil
	}

	if m.page == CatalogPage {
		if key.Matches(msg, m.keys.Add) {
			m.addSelected()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Inc):
		m.changeSelected(+1)
	case key.Matches(msg, m.keys.Dec):
		m.changeSelected(-1)
	case key.Matches(msg, m.keys.Remove):
		if item, ok := m.selectedItem(); ok {
			_, err := m.store.RemoveFromCart(m.ctx, item.ID)
			m.setStatus(err)
			m.clampCursor()
		}
	}
	return m, nil
}

func (m *Model) addSelected() {
	if m.snap.State != catalog.Ready || len(m.snap.Products) == 0 {
		return
	}
	p := m.snap.Products[m.cursors[CatalogPage]]
	_, err := m.store.AddToCart(m.ctx, p.Product())
	m.setStatus(err)
	if err == nil {
		m.status = "Đã thêm " + p.Name
	}
}

func (m *Model) changeSelected(delta int) {
	item, ok := m.selectedItem()
	if !ok {
		return
	}
	_, err := m.store.UpdateQuantity(m.ctx, item.ID, item.Quantity+delta)
	m.setStatus(err)
}

func (m *Model) selectedItem() (domain.CartItem, bool) {
	items := m.store.Items()
	i := m.cursors[CartPage]
	if i < 0 || i >= len(items) {
		return domain.CartItem{}, false
	}
	return items[i], true
}

func (m *Model) setStatus(err error) {
	if err != nil {
		m.status = m.styles.Error.Render(fmt.Sprintf("%s: %v", persistErr, err))
		return
	}
	m.status = ""
}

func (m *Model) clampCursor() {
	n := len(m.snap.Products)
	if m.page == CartPage {
		n = len(m.store.Items())
	}
	c := &m.cursors[m.page]
	*c = max(0, min(*c, n-1))
}

// View renders the header, the active page and the key help.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.page == CatalogPage {
		b.WriteString(m.catalogView())
	} else {
		b.WriteString(m.cartView())
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString("\n")
	if m.page == CatalogPage {
		b.WriteString(m.help.View(catalogKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(cartKeys{m.keys}))
	}
	return b.String()
}

func (m Model) headerView() string {
	tab := func(p Page, label string) string {
		if m.page == p {
			return m.styles.ActiveTab.Render(label)
		}
		return m.styles.Tab.Render(label)
	}
	cart := "🛒"
	if n := m.store.TotalItems(); n > 0 {
		cart += " " + m.styles.Badge.Render(fmt.Sprint(n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Header.Render(storeName),
		tab(CatalogPage, "Sản phẩm"),
		tab(CartPage, "Giỏ hàng"),
		" ", cart,
	)
}

func (m Model) catalogView() string {
	switch m.snap.State {
	case catalog.Loading:
		return m.spinner.View() + " Đang tải sản phẩm..."
	case catalog.Error:
		return m.styles.Error.Render(m.snap.Message)
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Sản phẩm nổi bật"))
	b.WriteString("\n")

	from, to := m.window(len(m.snap.Products), m.cursors[CatalogPage])
	for i := from; i < to; i++ {
		p := m.snap.Products[i]
		line := fmt.Sprintf("%-32s %s", truncate(p.Name, 32), m.styles.Price.Render(money.FormatVND(p.Price)))
		if p.HasDiscount {
			line += " " + m.styles.Original.Render(money.FormatVND(p.OriginalPrice)) +
				" " + m.styles.Discount.Render(fmt.Sprintf("-%d%%", p.DiscountPercent))
		}
		b.WriteString(m.row(i == m.cursors[CatalogPage], line))
	}
	return b.String()
}

func (m Model) cartView() string {
	items := m.store.Items()
	if len(items) == 0 {
		return m.styles.Muted.Render(emptyCart)
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Giỏ hàng của bạn"))
	b.WriteString("\n")

	from, to := m.window(len(items), m.cursors[CartPage])
	for i := from; i < to; i++ {
		it := items[i]
		line := fmt.Sprintf("%-32s %12s  × %2d  %s",
			truncate(it.Name, 32), money.FormatVND(it.Price), it.Quantity,
			m.styles.Price.Render(money.FormatVND(it.Subtotal())))
		b.WriteString(m.row(i == m.cursors[CartPage], line))
	}
	b.WriteString(m.styles.Total.Render("Tổng tiền: " + money.FormatVND(m.store.TotalPrice())))
	return b.String()
}

func (m Model) row(selected bool, line string) string {
	if selected {
		return m.styles.Selected.Render("› "+line) + "\n"
	}
	return m.styles.Item.Render(line) + "\n"
}

// window returns the slice of rows that fits the terminal around cursor.
func (m Model) window(n, cursor int) (int, int) {
	rows := max(m.height-8, 3)
	if n <= rows {
		return 0, n
	}
	from := max(0, min(cursor-rows/2, n-rows))
	return from, from + rows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, store CartStore, cat Catalog) error {
	p := tea.NewProgram(New(ctx, store, cat), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
