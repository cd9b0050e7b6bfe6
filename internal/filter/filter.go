package filter

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/validator"
)

// Predicate selects products. Predicates are pure and may be applied in any
// order.
type Predicate func(domain.Product) bool

// MatchSearch matches names containing text, ignoring case. Empty text
// matches everything.
func MatchSearch(text string) Predicate {
	needle := strings.ToLower(text)
	return func(p domain.Product) bool {
		return needle == "" || strings.Contains(strings.ToLower(p.Name), needle)
	}
}

// MatchCategory matches the exact category, or everything for "All" and "".
func MatchCategory(category string) Predicate {
	return func(p domain.Product) bool {
		return category == "" || category == domain.AllCategories || p.Category == category
	}
}

// MatchMaxPrice matches products priced at or below max.
func MatchMaxPrice(max domain.Money) Predicate {
	return func(p domain.Product) bool {
		return p.Price <= max
	}
}

// Apply returns the products accepted by every predicate, in input order.
// The input slice is not modified.
func Apply(products []domain.Product, preds ...Predicate) []domain.Product {
	out := make([]domain.Product, 0, len(products))
next:
	for _, p := range products {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// Catalog filters products by all three criteria.
func Catalog(products []domain.Product, c domain.FilterCriteria) []domain.Product {
	return Apply(products,
		MatchSearch(c.Search),
		MatchCategory(c.Category),
		MatchMaxPrice(c.MaxPrice),
	)
}

// CategoryResolver maps user input onto a canonical category name.
type CategoryResolver interface {
	ResolveCategory(input string) (string, bool)
}

// ParseCriteria builds criteria from the listing query parameters q,
// category and max_price. A missing or unparsable max_price falls back to
// defaultMax; amounts finer than a cent are truncated and amounts beyond
// the Money range are clamped to domain.MaxMoney. An explicit max_price of
// 0 is kept, so only free items match. An unknown category is kept as
// given and matches nothing. A negative max_price is a validation error.
func ParseCriteria(values url.Values, categories CategoryResolver, defaultMax domain.Money) (domain.FilterCriteria, error) {
	c := domain.FilterCriteria{
		Search:   strings.TrimSpace(values.Get("q")),
		Category: domain.AllCategories,
		MaxPrice: defaultMax,
	}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		if name, ok := categories.ResolveCategory(raw); ok {
			c.Category = name
		} else {
			c.Category = raw
		}
	}

	if raw := strings.TrimSpace(values.Get("max_price")); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			// Truncated to whole cents and clamped to the Money range, so
			// conversion cannot fail.
			d = decimal.Max(decimal.Min(d.Truncate(2), domain.MaxMoney.Decimal()), domain.MinMoney.Decimal())
			c.MaxPrice, _ = domain.MoneyFromDecimal(d)
		}
	}

	if err := validator.Validate(c); err != nil {
		return c, err
	}
	return c, nil
}

// Values encodes criteria back into query parameters, omitting defaults.
func Values(c domain.FilterCriteria, defaultMax domain.Money) url.Values {
	v := url.Values{}
	if c.Search != "" {
		v.Set("q", c.Search)
	}
	if c.Category != "" && c.Category != domain.AllCategories {
		v.Set("category", c.Category)
	}
	if c.MaxPrice != defaultMax {
		v.Set("max_price", c.MaxPrice.Decimal().String())
	}
	return v
}
