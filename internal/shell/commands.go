package shell

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/catalog/view"
	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
)

// Fetch results. Each is produced off the update loop by a tea.Cmd and
// applied back inside Update.
type (
	listingLoadedMsg struct{ err error }

	categorySelectedMsg struct {
		category string
		err      error
	}

	productLoadedMsg struct {
		gen     uint64
		product domain.Product
		err     error
	}

	quoteMsg struct {
		quote checkoutdomain.Quote
		err   error
	}
)

func loadListing(ctx context.Context, l *view.Listing) tea.Cmd {
	return func() tea.Msg {
		return listingLoadedMsg{err: l.Load(ctx)}
	}
}

func selectCategory(ctx context.Context, l *view.Listing, category string) tea.Cmd {
	return func() tea.Msg {
		return categorySelectedMsg{category: category, err: l.SelectCategory(ctx, category)}
	}
}

func fetchProduct(ctx context.Context, catalog view.ProductGetter, gen uint64, id int) tea.Cmd {
	return func() tea.Msg {
		p, err := catalog.GetProduct(ctx, id)
		return productLoadedMsg{gen: gen, product: p, err: err}
	}
}

func (m Model) requestQuote() tea.Cmd {
	ctx, svc := m.ctx, m.checkout
	return func() tea.Msg {
		q, err := svc.Quote(ctx, true)
		return quoteMsg{quote: q, err: err}
	}
}
