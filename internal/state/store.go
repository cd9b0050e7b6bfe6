package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// Snapshot keys. Each holds a JSON array.
const (
	CartKey     = "cartData"
	WishlistKey = "wishlistData"
)

// Store loads and saves the cart and wishlist snapshots of a session.
type Store struct {
	repo repository.SnapshotRepository
}

// NewStore creates a Store over repo.
func NewStore(repo repository.SnapshotRepository) *Store {
	return &Store{repo: repo}
}

// LoadCart returns the saved cart, or an empty cart when none is saved.
// When the stored bytes cannot be decoded or contain an invalid line, the
// empty cart is returned together with an error matching
// errors.ErrMalformedState.
func (s *Store) LoadCart(ctx context.Context, session string) (domain.Cart, error) {
	data, err := s.load(ctx, session, CartKey)
	if err != nil || data == nil {
		return domain.Cart{}, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return domain.Cart{}, apperrors.MalformedState(CartKey, err)
	}
	if err := validator.ValidateEach(lines); err != nil {
		return domain.Cart{}, apperrors.MalformedState(CartKey, err)
	}

	return domain.Cart{Lines: lines}, nil
}

// SaveCart writes the cart snapshot.
func (s *Store) SaveCart(ctx context.Context, session string, cart domain.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return s.save(ctx, session, CartKey, lines)
}

// LoadWishlist returns the saved wishlist, or an empty one when none is
// saved. Duplicate IDs are dropped; a non-positive ID makes the snapshot
// malformed.
func (s *Store) LoadWishlist(ctx context.Context, session string) (domain.Wishlist, error) {
	data, err := s.load(ctx, session, WishlistKey)
	if err != nil || data == nil {
		return domain.Wishlist{}, err
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return domain.Wishlist{}, apperrors.MalformedState(WishlistKey, err)
	}
	for i, id := range ids {
		if err := validator.Var(id, "gt=0"); err != nil {
			return domain.Wishlist{}, apperrors.MalformedState(WishlistKey, fmt.Errorf("element %d: product id %d", i, id))
		}
	}

	return domain.NewWishlist(ids), nil
}

// SaveWishlist writes the wishlist snapshot.
func (s *Store) SaveWishlist(ctx context.Context, session string, wishlist domain.Wishlist) error {
	ids := wishlist.IDs
	if ids == nil {
		ids = []int{}
	}
	return s.save(ctx, session, WishlistKey, ids)
}

// load returns nil data and a nil error when the key is absent.
func (s *Store) load(ctx context.Context, session, key string) ([]byte, error) {
	data, err := s.repo.Get(ctx, session, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) save(ctx context.Context, session, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.repo.Set(ctx, session, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
