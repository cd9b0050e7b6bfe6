package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/notify"
	"github.com/utafrali/storefront/internal/state"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Notice texts shown after a mutation.
const (
	msgAddedToBag      = "%s added to bag!"
	msgAddedToWishlist = "Added to wishlist!"
	msgRemovedWishlist = "Removed from wishlist"
	msgStateWasReset   = "Your saved %s could not be read and was reset."
)

const tracerName = "github.com/utafrali/storefront/internal/service"

// ProductLookup resolves catalog products.
type ProductLookup interface {
	Lookup(id int) (domain.Product, error)
}

// StateStore loads and saves session snapshots.
type StateStore interface {
	LoadCart(ctx context.Context, session string) (domain.Cart, error)
	SaveCart(ctx context.Context, session string, cart domain.Cart) error
	LoadWishlist(ctx context.Context, session string) (domain.Wishlist, error)
	SaveWishlist(ctx context.Context, session string, wishlist domain.Wishlist) error
}

// StorefrontService is the only mutator of cart and wishlist state. Every
// mutation loads the session state, applies the change and saves it before
// returning, holding a per-session lock throughout.
type StorefrontService struct {
	store    StateStore
	catalog  ProductLookup
	notifier *notify.Notifier
	counters *notify.CounterSync
	metrics  *Metrics
	logger   *slog.Logger
	locks    *keyedMutex
	tracer   trace.Tracer
}

// NewStorefrontService creates the engine.
func NewStorefrontService(
	store StateStore,
	catalog ProductLookup,
	notifier *notify.Notifier,
	counters *notify.CounterSync,
	metrics *Metrics,
	logger *slog.Logger,
) *StorefrontService {
	return &StorefrontService{
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		counters: counters,
		metrics:  metrics,
		logger:   logger,
		locks:    newKeyedMutex(),
		tracer:   tracing.Tracer(tracerName),
	}
}

// mutation is applied to the loaded state. It reports which collections
// changed and an optional notice for the visitor.
type mutation func(cart *domain.Cart, wishlist *domain.Wishlist) (change, error)

type change struct {
	cart     bool
	wishlist bool
	notice   *domain.Notice
}

// AddToCart adds one unit of productID, incrementing its line when present.
func (s *StorefrontService) AddToCart(ctx context.Context, session string, productID int) (domain.Snapshot, error) {
	return s.mutate(ctx, "add_to_cart", session, func(cart *domain.Cart, _ *domain.Wishlist) (change, error) {
		p, err := s.catalog.Lookup(productID)
		if err != nil {
			return change{}, err
		}
		if _, err := cart.Add(p); err != nil {
			return change{}, apperrors.InvalidInput(err.Error())
		}
		return change{
			cart:   true,
			notice: &domain.Notice{Message: fmt.Sprintf(msgAddedToBag, p.Name), Kind: domain.NoticeSuccess},
		}, nil
	}, attribute.Int("storefront.product_id", productID))
}

// ChangeQuantity adds delta to the line at index; the line is removed when
// its quantity drops below 1. A delta that would exceed
// domain.MaxLineQuantity is rejected as invalid input.
func (s *StorefrontService) ChangeQuantity(ctx context.Context, session string, index, delta int) (domain.Snapshot, error) {
	return s.mutate(ctx, "change_quantity", session, func(cart *domain.Cart, _ *domain.Wishlist) (change, error) {
		if !cart.ValidIndex(index) {
			return change{}, apperrors.IndexOutOfRange(index, len(cart.Lines))
		}
		if _, err := cart.Adjust(index, delta); err != nil {
			return change{}, apperrors.InvalidInput(err.Error())
		}
		return change{cart: true}, nil
	}, attribute.Int("storefront.line_index", index), attribute.Int("storefront.delta", delta))
}

// RemoveLine deletes the line at index.
func (s *StorefrontService) RemoveLine(ctx context.Context, session string, index int) (domain.Snapshot, error) {
	return s.mutate(ctx, "remove_line", session, func(cart *domain.Cart, _ *domain.Wishlist) (change, error) {
		if !cart.ValidIndex(index) {
			return change{}, apperrors.IndexOutOfRange(index, len(cart.Lines))
		}
		cart.Remove(index)
		return change{cart: true}, nil
	}, attribute.Int("storefront.line_index", index))
}

// ClearCart empties the bag.
func (s *StorefrontService) ClearCart(ctx context.Context, session string) (domain.Snapshot, error) {
	return s.mutate(ctx, "clear_cart", session, func(cart *domain.Cart, _ *domain.Wishlist) (change, error) {
		cart.Lines = nil
		return change{cart: true}, nil
	})
}

// ToggleWishlist adds productID to the wishlist when absent and removes it
// when present. Only catalog products can be added; a stale ID can always
// be removed.
func (s *StorefrontService) ToggleWishlist(ctx context.Context, session string, productID int) (domain.Snapshot, error) {
	return s.mutate(ctx, "toggle_wishlist", session, func(_ *domain.Cart, wishlist *domain.Wishlist) (change, error) {
		if !wishlist.Contains(productID) {
			if _, err := s.catalog.Lookup(productID); err != nil {
				return change{}, err
			}
		}

		if wishlist.Toggle(productID) {
			s.metrics.toggles.WithLabelValues("added").Inc()
			return change{
				wishlist: true,
				notice:   &domain.Notice{Message: msgAddedToWishlist, Kind: domain.NoticeSuccess},
			}, nil
		}
		s.metrics.toggles.WithLabelValues("removed").Inc()
		return change{
			wishlist: true,
			notice:   &domain.Notice{Message: msgRemovedWishlist, Kind: domain.NoticeInfo},
		}, nil
	}, attribute.Int("storefront.product_id", productID))
}

// State returns the current cart, wishlist and counters. When a stored
// snapshot is malformed the empty fallback is returned together with an
// error matching errors.ErrMalformedState.
func (s *StorefrontService) State(ctx context.Context, session string) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.State")
	defer span.End()

	if session == "" {
		return domain.Snapshot{}, apperrors.InvalidInput("session id is required")
	}

	unlock := s.locks.Lock(session)
	defer unlock()

	cart, cartErr := s.store.LoadCart(ctx, session)
	if cartErr != nil && !errors.Is(cartErr, apperrors.ErrMalformedState) {
		span.SetStatus(codes.Error, cartErr.Error())
		return domain.Snapshot{}, fmt.Errorf("state: %w", cartErr)
	}
	wishlist, wishErr := s.store.LoadWishlist(ctx, session)
	if wishErr != nil && !errors.Is(wishErr, apperrors.ErrMalformedState) {
		span.SetStatus(codes.Error, wishErr.Error())
		return domain.Snapshot{}, fmt.Errorf("state: %w", wishErr)
	}

	snap := snapshot(cart, wishlist, domain.CountersFor(cart, wishlist))
	if err := errors.Join(cartErr, wishErr); err != nil {
		span.RecordError(err)
		return snap, err
	}
	return snap, nil
}

// Notices drains the pending notices for session.
func (s *StorefrontService) Notices(session string) []domain.Notice {
	return s.notifier.Drain(session)
}

func (s *StorefrontService) mutate(ctx context.Context, op, session string, fn mutation, attrs ...attribute.KeyValue) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService."+op, trace.WithAttributes(attrs...))
	defer span.End()

	l := logger.WithContext(ctx, s.logger).With(slog.String("operation", op))

	if session == "" {
		s.metrics.operations.WithLabelValues(op, resultInvalid).Inc()
		return domain.Snapshot{}, apperrors.InvalidInput("session id is required")
	}

	unlock := s.locks.Lock(session)
	defer unlock()

	cart, wishlist, err := s.loadForWrite(ctx, l, session)
	if err != nil {
		s.fail(span, op, err)
		return domain.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := fn(&cart, &wishlist)
	if err != nil {
		s.fail(span, op, err)
		return domain.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	if ch.cart {
		if err := s.store.SaveCart(ctx, session, cart); err != nil {
			s.fail(span, op, err)
			return domain.Snapshot{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if ch.wishlist {
		if err := s.store.SaveWishlist(ctx, session, wishlist); err != nil {
			s.fail(span, op, err)
			return domain.Snapshot{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	counters := s.counters.Refresh(session, cart, wishlist)
	if ch.notice != nil {
		s.notifier.Notify(session, *ch.notice)
	}
	s.metrics.operations.WithLabelValues(op, resultOK).Inc()

	l.Info("storefront state updated",
		slog.Int("cart_lines", len(cart.Lines)),
		slog.Int("cart_quantity", counters.CartQuantity),
		slog.Int("wishlist_size", counters.WishlistSize),
	)

	return snapshot(cart, wishlist, counters), nil
}

// loadForWrite loads both collections. A malformed snapshot is logged and
// the empty fallback is written over it at once, so the warning fires only
// once even when the mutation itself fails.
func (s *StorefrontService) loadForWrite(ctx context.Context, l *slog.Logger, session string) (domain.Cart, domain.Wishlist, error) {
	cart, err := s.store.LoadCart(ctx, session)
	if err != nil {
		if !errors.Is(err, apperrors.ErrMalformedState) {
			return domain.Cart{}, domain.Wishlist{}, err
		}
		s.reportMalformed(l, session, state.CartKey, "bag", err)
		if err := s.store.SaveCart(ctx, session, cart); err != nil {
			return domain.Cart{}, domain.Wishlist{}, err
		}
	}

	wishlist, err := s.store.LoadWishlist(ctx, session)
	if err != nil {
		if !errors.Is(err, apperrors.ErrMalformedState) {
			return domain.Cart{}, domain.Wishlist{}, err
		}
		s.reportMalformed(l, session, state.WishlistKey, "wishlist", err)
		if err := s.store.SaveWishlist(ctx, session, wishlist); err != nil {
			return domain.Cart{}, domain.Wishlist{}, err
		}
	}

	return cart, wishlist, nil
}

func (s *StorefrontService) reportMalformed(l *slog.Logger, session, key, label string, err error) {
	s.metrics.malformed.WithLabelValues(key).Inc()
	l.Warn("resetting malformed snapshot",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
	s.notifier.Notify(session, domain.Notice{
		Message: fmt.Sprintf(msgStateWasReset, label),
		Kind:    domain.NoticeWarning,
	})
}

func (s *StorefrontService) fail(span trace.Span, op string, err error) {
	result := resultError
	switch {
	case errors.Is(err, apperrors.ErrIndexOutOfRange):
		result = resultOutOfRange
	case errors.Is(err, apperrors.ErrNotFound):
		result = resultNotFound
	case errors.Is(err, apperrors.ErrInvalidInput):
		result = resultInvalid
	}
	s.metrics.operations.WithLabelValues(op, result).Inc()

	span.RecordError(err)
	if result == resultError {
		span.SetStatus(codes.Error, err.Error())
	}
}

func snapshot(cart domain.Cart, wishlist domain.Wishlist, counters domain.Counters) domain.Snapshot {
	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}
	if wishlist.IDs == nil {
		wishlist.IDs = []int{}
	}
	return domain.Snapshot{
		Cart:     cart,
		Wishlist: wishlist,
		Counters: counters,
		Total:    cart.Total(),
	}
}
