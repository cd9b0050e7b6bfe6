package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/slug"
	"github.com/utafrali/storefront/pkg/validator"
)

//go:embed products.yaml
var defaultCatalog []byte

// Catalog is the immutable product list loaded at startup.
type Catalog struct {
	products   []domain.Product
	byID       map[int]int
	categories []string
	maxPrice   domain.Money
}

type record struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Category string `yaml:"category"`
	Image    string `yaml:"img"`
}

type document struct {
	Products []record `yaml:"products"`
}

// New validates products and freezes them into a Catalog. IDs must be
// unique and positive; names, categories and image URLs are required.
func New(products []domain.Product) (*Catalog, error) {
	if err := validator.ValidateEach(products); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)

	seenCategory := make(map[string]struct{})
	for i, p := range c.products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("validate catalog: duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = i

		if _, ok := seenCategory[p.Category]; !ok {
			seenCategory[p.Category] = struct{}{}
			c.categories = append(c.categories, p.Category)
		}
		if p.Price > c.maxPrice {
			c.maxPrice = p.Price
		}
	}

	return c, nil
}

// Default returns the demo catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document. Unknown fields are rejected and
// prices are parsed as exact decimals.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(doc.Products))
	for _, r := range doc.Products {
		amount, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: invalid price %q: %w", r.ID, r.Price, err)
		}
		price, err := domain.MoneyFromDecimal(amount)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", r.ID, err)
		}
		products = append(products, domain.Product{
			ID:       r.ID,
			Name:     r.Name,
			Price:    price,
			Category: r.Category,
			Image:    r.Image,
		})
	}

	return New(products)
}

// Products returns the catalog in its defined order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id int) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return c.products[i], nil
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Siblings returns the other products in p's category, in catalog order.
func (c *Catalog) Siblings(p domain.Product) []domain.Product {
	var out []domain.Product
	for _, other := range c.products {
		if other.Category == p.Category && other.ID != p.ID {
			out = append(out, other)
		}
	}
	return out
}

// ResolveCategory maps a category name or its slug onto the canonical name.
// The "All" sentinel and the empty string resolve to "All".
func (c *Catalog) ResolveCategory(input string) (string, bool) {
	if input == "" || slug.Matches(input, domain.AllCategories) {
		return domain.AllCategories, true
	}
	for _, name := range c.categories {
		if slug.Matches(input, name) {
			return name, true
		}
	}
	return "", false
}

// MaxPrice returns the highest product price.
func (c *Catalog) MaxPrice() domain.Money {
	return c.maxPrice
}
