package render

import (
	"net/url"
	"strconv"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

// Empty-state texts.
const (
	MsgNoMatches     = "No items match your criteria."
	MsgGadgetMissing = "Gadget not found."
	MsgBagEmpty      = "Your shopping bag is empty."
)

// Outcome is a navigation intent returned instead of a rendered view.
type Outcome struct {
	Redirect string
}

// IsRedirect reports whether the caller should navigate away.
func (o Outcome) IsRedirect() bool {
	return o.Redirect != ""
}

// ProductCard is one tile of a product grid.
type ProductCard struct {
	ID         int
	Name       string
	Category   string
	Image      string
	Price      string
	URL        string
	Wishlisted bool
}

// GridView is the product-list fragment.
type GridView struct {
	Cards        []ProductCard
	EmptyMessage string
	ReturnTo     string
	Pager        Pager
}

// Empty reports whether no card matched.
func (g GridView) Empty() bool {
	return len(g.Cards) == 0
}

// Pager links between listing pages.
type Pager struct {
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// DetailView is the product-details-container fragment.
type DetailView struct {
	Found           bool
	Message         string
	Product         ProductCard
	Recommendations []ProductCard
	ReturnTo        string
}

// CartRow is one line of the cart table or checkout summary.
type CartRow struct {
	Index     int
	ID        int
	Name      string
	Category  string
	Image     string
	Price     string
	Quantity  int
	LineTotal string
}

// CartView is the cart-table-container fragment.
type CartView struct {
	Rows         []CartRow
	Quantity     int
	Total        string
	EmptyMessage string
	ReturnTo     string
}

// Empty reports whether the bag has no lines.
func (c CartView) Empty() bool {
	return len(c.Rows) == 0
}

// CheckoutView is the checkout-items fragment.
type CheckoutView struct {
	Rows     []CartRow
	Quantity int
	Subtotal string
	Total    string
}

// CategoryButton is one entry of the category bar.
type CategoryButton struct {
	Name   string
	Slug   string
	URL    string
	Active bool
}

// CategoryBarView is the category-btns fragment.
type CategoryBarView struct {
	Buttons []CategoryButton
}

// ProductURL returns the detail page link for a product.
func ProductURL(id int) string {
	return "/product?id=" + strconv.Itoa(id)
}

func card(p domain.Product, wishlisted map[int]bool) ProductCard {
	return ProductCard{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Image:      p.Image,
		Price:      p.Price.String(),
		URL:        ProductURL(p.ID),
		Wishlisted: wishlisted[p.ID],
	}
}

func cards(products []domain.Product, wishlisted map[int]bool) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		out = append(out, card(p, wishlisted))
	}
	return out
}

// ProductGrid builds the grid for products, marking wishlisted ones.
func ProductGrid(products []domain.Product, wishlist domain.Wishlist) GridView {
	return GridView{
		Cards:        cards(products, wishlist.Set()),
		EmptyMessage: MsgNoMatches,
	}
}

// ProductDetail builds the detail view with same-category recommendations.
func ProductDetail(p domain.Product, siblings []domain.Product, wishlist domain.Wishlist) DetailView {
	set := wishlist.Set()
	return DetailView{
		Found:           true,
		Product:         card(p, set),
		Recommendations: cards(siblings, set),
		Message:         MsgNoMatches,
	}
}

// DetailNotFound is shown for an unknown or malformed product id.
func DetailNotFound() DetailView {
	return DetailView{Message: MsgGadgetMissing}
}

func rows(cart domain.Cart) []CartRow {
	out := make([]CartRow, 0, len(cart.Lines))
	for i, line := range cart.Lines {
		out = append(out, CartRow{
			Index:     i,
			ID:        line.ID,
			Name:      line.Name,
			Category:  line.Category,
			Image:     line.Image,
			Price:     line.Price.String(),
			Quantity:  line.Quantity,
			LineTotal: line.Total().String(),
		})
	}
	return out
}

// CartTable builds the cart table. An empty cart yields the empty-state view
// with a $0 total.
func CartTable(cart domain.Cart) CartView {
	return CartView{
		Rows:         rows(cart),
		Quantity:     cart.Quantity(),
		Total:        cart.Total().String(),
		EmptyMessage: MsgBagEmpty,
	}
}

// CheckoutSummary builds the read-only checkout summary. An empty cart yields
// a redirect to the listing instead.
func CheckoutSummary(cart domain.Cart) (CheckoutView, Outcome) {
	if cart.IsEmpty() {
		return CheckoutView{}, Outcome{Redirect: "/"}
	}
	total := cart.Total().String()
	return CheckoutView{
		Rows:     rows(cart),
		Quantity: cart.Quantity(),
		Subtotal: total,
		Total:    total,
	}, Outcome{}
}

// CategoryBar builds the category buttons: "All" first, then each category
// in catalog order. Links keep the other listing parameters in base.
func CategoryBar(categories []string, active string, base url.Values) CategoryBarView {
	if active == "" {
		active = domain.AllCategories
	}
	names := append([]string{domain.AllCategories}, categories...)

	view := CategoryBarView{Buttons: make([]CategoryButton, 0, len(names))}
	for _, name := range names {
		q := url.Values{}
		for k, v := range base {
			if k != "category" && k != "page" {
				q[k] = v
			}
		}
		s := slug.Generate(name)
		if name != domain.AllCategories {
			q.Set("category", s)
		}
		link := "/"
		if enc := q.Encode(); enc != "" {
			link += "?" + enc
		}
		view.Buttons = append(view.Buttons, CategoryButton{
			Name:   name,
			Slug:   s,
			URL:    link,
			Active: name == active,
		})
	}
	return view
}
