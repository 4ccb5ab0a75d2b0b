// Package shell is the terminal front end: a login stub, the product
// listing, product detail and the cart, composed behind a small route table.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/catalog/view"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/google/uuid"
)

type page int

const (
	pageLogin page = iota
	pageProducts
	pageDetail
	pageCart
)

func (p page) String() string {
	switch p {
	case pageLogin:
		return "login"
	case pageProducts:
		return "products"
	case pageDetail:
		return "detail"
	case pageCart:
		return "cart"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

const orderPlaced = "Order placed successfully!"

// Deps are the collaborators a session is built from. The cart is owned by
// the caller and injected here.
type Deps struct {
	Catalog  view.Catalog
	Cart     *cartapp.Store
	Checkout *checkoutapp.Service
	Log      *slog.Logger
}

type Model struct {
	ctx       context.Context
	log       *slog.Logger
	styles    Styles
	sessionID string

	catalog  view.Catalog
	listing  *view.Listing
	detail   *view.Detail
	cart     *cartapp.Store
	checkout *checkoutapp.Service

	page     page
	user     string
	username textinput.Model
	search   textinput.Model
	spinner  spinner.Model

	cursor      int
	cartCursor  int
	categoryIdx int
	status      string

	width int
}

func New(ctx context.Context, deps Deps) Model {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}
	if deps.Cart == nil {
		deps.Cart = cartapp.NewStore(cartapp.WithLogger(log))
	}
	sessionID := uuid.NewString()
	log = log.With(slog.String("session_id", sessionID))

	username := newInput("username")
	username.Focus()

	search := newInput("Search products...")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		log:       log,
		styles:    DefaultStyles(),
		sessionID: sessionID,
		catalog:   deps.Catalog,
		listing:   view.NewListing(deps.Catalog, log),
		detail:    view.NewDetail(deps.Catalog, log),
		cart:      deps.Cart,
		checkout:  deps.Checkout,
		page:      pageLogin,
		username:  username,
		search:    search,
		spinner:   sp,
	}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.log.Info("session closed", slog.String("page", m.page.String()))
			return m, tea.Quit
		}
		switch m.page {
		case pageLogin:
			return m.updateLogin(msg)
		case pageProducts:
			return m.updateProducts(msg)
		case pageDetail:
			return m.updateDetail(msg)
		case pageCart:
			return m.updateCart(msg)
		}
		return m, nil

	case listingLoadedMsg:
		if msg.err == nil {
			m.cursor = 0
			m.categoryIdx = 0
			if term := m.search.Value(); term != "" {
				m.listing.SetSearchTerm(term)
			}
		}
		return m, nil

	case categorySelectedMsg:
		switch {
		case msg.err == nil:
			m.cursor = 0
		case !errors.Is(msg.err, view.ErrSuperseded):
			m.categoryIdx = m.categoryIndex(m.listing.Category())
		}
		return m, nil

	case productLoadedMsg:
		_ = m.detail.Resolve(msg.gen, msg.product, msg.err)
		return m, nil

	case quoteMsg:
		m.status = describeQuote(msg)
		return m, nil

	case spinner.TickMsg:
		if m.page != pageDetail || m.detail.State() != view.DetailLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		m.username, cmd = m.username.Update(msg)
		return m, cmd
	}

	name := strings.TrimSpace(m.username.Value())
	if name == "" {
		m.status = "enter a username to continue"
		return m, nil
	}

	m.user = name
	m.status = ""
	m.username.Blur()
	m.search.Focus()
	m.page = pageProducts
	m.log.Info("login", slog.String("user", name))

	if m.listing.Loaded() {
		return m, nil
	}
	return m, loadListing(m.ctx, m.listing)
}

func (m Model) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.listing.Visible()

	switch msg.String() {
	case "esc":
		m.log.Info("logout", slog.String("user", m.user))
		m.user = ""
		m.page = pageLogin
		m.search.Blur()
		m.username.Reset()
		m.username.Focus()
		return m, nil

	case "ctrl+o":
		m.page = pageCart
		m.status = ""
		return m, nil

	case "ctrl+r":
		return m, loadListing(m.ctx, m.listing)

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case "tab", "shift+tab":
		options := m.categoryOptions()
		step := 1
		if msg.String() == "shift+tab" {
			step = len(options) - 1
		}
		m.categoryIdx = (m.categoryIdx + step) % len(options)
		m.search.SetValue("")
		return m, selectCategory(m.ctx, m.listing, options[m.categoryIdx])

	case "enter":
		if m.cursor < 0 || m.cursor >= len(visible) {
			return m, nil
		}
		return m.openDetail(visible[m.cursor].ID)
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.listing.SetSearchTerm(after)
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) categoryOptions() []string {
	return append([]string{view.AllCategories}, m.listing.Categories()...)
}

func (m Model) categoryIndex(category string) int {
	for i, c := range m.categoryOptions() {
		if c == category {
			return i
		}
	}
	return 0
}

func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	m.page = pageDetail
	m.status = ""
	gen := m.detail.Begin(id)
	return m, tea.Batch(fetchProduct(m.ctx, m.catalog, gen, id), m.spinner.Tick)
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.page = pageProducts
		m.status = ""
	case "a":
		if m.detail.AddToCart(m.cart, 1) {
			p, _ := m.detail.Product()
			m.status = fmt.Sprintf("added %q to cart", p.Title)
		}
	case "c":
		m.page = pageCart
		m.status = ""
	}
	return m, nil
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.cart.Items()

	switch msg.String() {
	case "esc":
		m.page = pageProducts
		m.status = ""
		return m, nil

	case "up":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
		return m, nil

	case "down":
		if m.cartCursor < len(items)-1 {
			m.cartCursor++
		}
		return m, nil

	case "enter":
		receipt := m.cart.Checkout()
		m.cartCursor = 0
		m.status = fmt.Sprintf("%s (receipt %s, total $%s)", orderPlaced, receipt.ID, receipt.Total.StringFixed(2))
		return m, nil

	case "p":
		if m.checkout == nil {
			return m, nil
		}
		m.status = "checking prices..."
		return m, m.requestQuote()
	}

	if len(items) == 0 {
		return m, nil
	}
	sel := items[min(m.cartCursor, len(items)-1)]

	switch msg.String() {
	case "+", "=":
		m.cart.UpdateQuantity(sel.ProductID, sel.Quantity+1)
	case "-":
		m.cart.UpdateQuantity(sel.ProductID, sel.Quantity-1)
	case "d", "delete":
		m.cart.RemoveItem(sel.ProductID)
		if m.cartCursor >= m.cart.Len() && m.cartCursor > 0 {
			m.cartCursor--
		}
	}
	return m, nil
}

func describeQuote(msg quoteMsg) string {
	switch {
	case errors.Is(msg.err, checkoutapp.ErrEmptyCart):
		return "cart is empty"
	case msg.err != nil:
		return "could not check prices"
	}

	drifted := msg.quote.DriftedLines()
	if len(drifted) == 0 {
		return "prices are up to date"
	}
	parts := make([]string, 0, len(drifted))
	for _, ln := range drifted {
		parts = append(parts, fmt.Sprintf("%s now $%s", ln.Title, ln.LivePrice.StringFixed(2)))
	}
	return fmt.Sprintf("%d price(s) changed: %s", len(drifted), strings.Join(parts, "; "))
}
