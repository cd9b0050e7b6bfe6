package domain

// Wishlist is an insertion-ordered set of product IDs.
type Wishlist struct {
	IDs []int `json:"ids"`
}

// NewWishlist builds a wishlist from ids, keeping the first occurrence of
// each and dropping later duplicates.
func NewWishlist(ids []int) Wishlist {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Wishlist{IDs: out}
}

// Contains reports membership.
func (w *Wishlist) Contains(id int) bool {
	for _, v := range w.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle adds id when absent and removes it when present. It returns true
// when id was added.
func (w *Wishlist) Toggle(id int) bool {
	for i, v := range w.IDs {
		if v == id {
			w.IDs = append(w.IDs[:i], w.IDs[i+1:]...)
			return false
		}
	}
	w.IDs = append(w.IDs, id)
	return true
}

// Len returns the number of distinct IDs.
func (w *Wishlist) Len() int {
	return len(w.IDs)
}

// Set returns the IDs as a lookup set.
func (w *Wishlist) Set() map[int]bool {
	set := make(map[int]bool, len(w.IDs))
	for _, id := range w.IDs {
		set[id] = true
	}
	return set
}
