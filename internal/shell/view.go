package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dwikikusuma/storefront/internal/catalog/view"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderNav())
	b.WriteString("\n")

	switch m.page {
	case pageLogin:
		b.WriteString(m.renderLogin())
	case pageProducts:
		b.WriteString(m.renderProducts())
	case pageDetail:
		b.WriteString(m.renderDetail())
	case pageCart:
		b.WriteString(m.renderCart())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderNav() string {
	if m.user == "" {
		return m.styles.Header.Render("Storefront")
	}
	nav := fmt.Sprintf("Storefront · %s · cart (%d)", m.user, m.cart.Len())
	return m.styles.Header.Render(nav)
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Login"))
	b.WriteString("\n\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("enter continue · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderProducts() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Product Listing"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Category: %s\n", m.listing.Category()))
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if notice := m.listing.Notice(); notice != "" {
		b.WriteString(m.styles.Notice.Render(notice))
		b.WriteString("\n")
	}

	visible := m.listing.Visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.Muted.Render("No products available"))
		b.WriteString("\n")
	}
	for i, p := range visible {
		line := fmt.Sprintf("%4d  %10s  %s", p.ID, "$"+p.Price.StringFixed(2), p.Title)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("type to search · tab category · ↑/↓ move · enter open · ctrl+o cart · ctrl+r reload · esc logout"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderDetail() string {
	var b strings.Builder

	switch m.detail.State() {
	case view.DetailLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...\n")
	case view.DetailFailed:
		b.WriteString(m.styles.Notice.Render(fmt.Sprintf("could not load product %d", m.detail.ID())))
		b.WriteString("\n")
	case view.DetailLoaded:
		p, _ := m.detail.Product()
		b.WriteString(m.styles.Title.Render(p.Title))
		b.WriteString("\n\n")
		b.WriteString(p.Description)
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Price: %s\n", m.styles.Price.Render("$"+p.Price.StringFixed(2))))
		b.WriteString(fmt.Sprintf("Category: %s\n", p.Category))
		b.WriteString(m.styles.Muted.Render(p.Image))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("a add to cart · c cart · esc back"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCart() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Cart"))
	b.WriteString("\n\n")

	items := m.cart.Items()
	if len(items) == 0 {
		b.WriteString(m.styles.Muted.Render("Your cart is empty"))
		b.WriteString("\n")
	}
	for i, it := range items {
		line := fmt.Sprintf("%-40s x%-3d  $%s", truncate(it.Title, 40), it.Quantity, it.UnitPrice.StringFixed(2))
		if i == m.cartCursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nTotal Price: $%s\n\n", m.cart.Total().StringFixed(2)))
	b.WriteString(m.styles.Muted.Render("↑/↓ select · +/- quantity · d remove · p check prices · enter checkout · esc back"))
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}
