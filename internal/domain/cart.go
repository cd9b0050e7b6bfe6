package domain

import "fmt"

// MaxLineQuantity caps the quantity of a single line so price × quantity
// stays well inside int64 cents.
const MaxLineQuantity = 10000

// ErrQuantityLimit is returned when a change would push a line past
// MaxLineQuantity. The cart is left untouched.
var ErrQuantityLimit = fmt.Errorf("quantity cannot exceed %d", MaxLineQuantity)

// CartLine is one row of the bag: the product fields copied when the line
// was created, plus a quantity that is always at least 1 at rest.
type CartLine struct {
	ID       int    `json:"id" validate:"gt=0"`
	Name     string `json:"name" validate:"required"`
	Price    Money  `json:"price" validate:"gte=0"`
	Category string `json:"category"`
	Image    string `json:"img"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=10000"`
}

// NewCartLine copies p into a line with quantity 1.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Image:    p.Image,
		Quantity: 1,
	}
}

// Total returns price × quantity.
func (l CartLine) Total() Money {
	return l.Price * Money(l.Quantity)
}

// Cart is the ordered bag, addressed by line position.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total returns the grand total in cents.
func (c *Cart) Total() Money {
	var total Money
	for _, line := range c.Lines {
		total += line.Total()
	}
	return total
}

// Quantity returns the number of units across all lines.
func (c *Cart) Quantity() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line for productID, or -1.
func (c *Cart) FindLine(productID int) int {
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			return i
		}
	}
	return -1
}

// ValidIndex reports whether i addresses an existing line.
func (c *Cart) ValidIndex(i int) bool {
	return i >= 0 && i < len(c.Lines)
}

// Add increments the line for p or appends a new one. It returns the
// resulting quantity of that line, or ErrQuantityLimit when the line is
// already at MaxLineQuantity.
func (c *Cart) Add(p Product) (int, error) {
	if idx := c.FindLine(p.ID); idx >= 0 {
		if c.Lines[idx].Quantity >= MaxLineQuantity {
			return c.Lines[idx].Quantity, ErrQuantityLimit
		}
		c.Lines[idx].Quantity++
		return c.Lines[idx].Quantity, nil
	}
	c.Lines = append(c.Lines, NewCartLine(p))
	return 1, nil
}

// Adjust adds delta to line i and removes the line when the result drops
// below 1. It reports whether the line was removed. A delta that would take
// the line past MaxLineQuantity returns ErrQuantityLimit without touching
// the cart. i must be valid.
func (c *Cart) Adjust(i, delta int) (bool, error) {
	q := c.Lines[i].Quantity
	// Compared against the headroom so that q+delta is never computed
	// when it could wrap.
	if delta > MaxLineQuantity-q {
		return false, ErrQuantityLimit
	}
	if delta <= -q {
		c.Remove(i)
		return true, nil
	}
	c.Lines[i].Quantity = q + delta
	return false, nil
}

// Remove deletes line i. i must be valid.
func (c *Cart) Remove(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
