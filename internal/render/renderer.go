package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/utafrali/storefront/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Target names a container fragment.
type Target string

const (
	TargetProductList    Target = "product-list"
	TargetProductDetails Target = "product-details-container"
	TargetCartTable      Target = "cart-table-container"
	TargetCheckoutItems  Target = "checkout-items"
	TargetCategoryBar    Target = "category-btns"
)

var targets = map[Target]struct{}{
	TargetProductList:    {},
	TargetProductDetails: {},
	TargetCartTable:      {},
	TargetCheckoutItems:  {},
	TargetCategoryBar:    {},
}

// ParseTarget validates a container identifier.
func ParseTarget(s string) (Target, bool) {
	t := Target(s)
	_, ok := targets[t]
	return t, ok
}

// Page names a full page shell.
type Page string

const (
	PageHome     Page = "home"
	PageProduct  Page = "product"
	PageCart     Page = "cart"
	PageCheckout Page = "checkout"
	PageError    Page = "error"
)

// FilterView echoes the listing criteria back into the filter form.
type FilterView struct {
	Search    string
	Category  string
	MaxPrice  int64
	SliderMax int64
}

// ErrorView is the body of the error page.
type ErrorView struct {
	Status  int
	Message string
}

// PageData is everything a page shell may show. Only the views used by the
// selected page need to be set.
type PageData struct {
	Title      string
	Counters   domain.Counters
	Notices    []domain.Notice
	Filter     FilterView
	Categories CategoryBarView
	Grid       GridView
	Detail     DetailView
	Cart       CartView
	Checkout   CheckoutView
	Error      ErrorView
}

// cardContext pairs a product card with the path its forms return to.
type cardContext struct {
	Card     ProductCard
	ReturnTo string
}

var funcs = template.FuncMap{
	"cardCtx": func(c ProductCard, returnTo string) cardContext {
		return cardContext{Card: c, ReturnTo: returnTo}
	},
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("storefront").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the fragment for target. Output is buffered so a template
// error never leaves a partial fragment on w.
func (r *Renderer) Render(w io.Writer, target Target, data any) error {
	if _, ok := targets[target]; !ok {
		return fmt.Errorf("unknown render target %q", target)
	}
	return r.execute(w, string(target), data)
}

// Page writes a full page shell with counters and pending notices.
func (r *Renderer) Page(w io.Writer, page Page, data PageData) error {
	return r.execute(w, "page-"+string(page), data)
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
