package domain

import "time"

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "All"

// FilterCriteria narrows the listing. It is derived from the request and
// never persisted.
type FilterCriteria struct {
	Search   string `json:"q"`
	Category string `json:"category"`
	MaxPrice Money  `json:"max_price" validate:"gte=0"`
}

// Counters are the badge values shown in the page header.
type Counters struct {
	CartQuantity int `json:"cart_quantity"`
	WishlistSize int `json:"wishlist_size"`
}

// CountersFor derives the header counters from the current state.
func CountersFor(cart Cart, wishlist Wishlist) Counters {
	return Counters{
		CartQuantity: cart.Quantity(),
		WishlistSize: wishlist.Len(),
	}
}

// NoticeKind selects the styling of a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// Notice is a transient, self-dismissing message for one session.
type Notice struct {
	Message   string     `json:"message"`
	Kind      NoticeKind `json:"kind"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the notice should no longer be shown at now.
func (n Notice) Expired(now time.Time) bool {
	return !n.ExpiresAt.IsZero() && !now.Before(n.ExpiresAt)
}

// Snapshot is the full visitor state returned to callers.
type Snapshot struct {
	Cart     Cart     `json:"cart"`
	Wishlist Wishlist `json:"wishlist"`
	Counters Counters `json:"counters"`
	Total    Money    `json:"total"`
}
