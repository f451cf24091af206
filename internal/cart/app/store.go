package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jcmexdev/storefront/internal/cart/domain"
)

var (
	// ErrPersist wraps a failed commit. The transition that triggered it is
	// kept in memory.
	ErrPersist = errors.New("cart: persist snapshot")

	// ErrCorruptSnapshot is returned by NewStore under FailOnCorrupt when the
	// stored value cannot be decoded.
	ErrCorruptSnapshot = errors.New("cart: corrupt snapshot")
)

// CorruptPolicy decides what NewStore does with an undecodable snapshot.
type CorruptPolicy int

const (
	// ResetOnCorrupt starts from an empty cart; the next commit overwrites
	// the bad value.
	ResetOnCorrupt CorruptPolicy = iota
	// FailOnCorrupt makes NewStore return ErrCorruptSnapshot.
	FailOnCorrupt
)

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key (default domain.SnapshotKey).
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithCorruptPolicy sets the corrupt snapshot policy.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store owns the cart for a session. Every mutation goes through Dispatch,
// which applies the transition and then commits the full snapshot to
// Storage.
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	policy  CorruptPolicy
	log     *slog.Logger
	cart    domain.Cart
}

// NewStore reads the snapshot once and returns a store positioned on it.
// A missing key yields an empty cart. Read errors from Storage are returned.
func NewStore(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage: storage,
		key:     domain.SnapshotKey,
		policy:  ResetOnCorrupt,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cart = cart
	return s, nil
}

func (s *Store) load(ctx context.Context) (domain.Cart, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("cart: load snapshot %q: %w", s.key, err)
	}
	if !ok {
		return domain.Cart{}, nil
	}

	cart, err := domain.DecodeSnapshot(raw)
	if err != nil {
		if s.policy == FailOnCorrupt {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
		s.log.WarnContext(ctx, "discarding corrupt cart snapshot", "key", s.key, "error", err)
		return domain.Cart{}, nil
	}

	return domain.Normalize(cart), nil
}

// Dispatch applies cmd and commits the result. The returned cart is the new
// state even when the commit fails; the error then wraps ErrPersist.
func (s *Store) Dispatch(ctx context.Context, cmd domain.Command) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.Apply(s.cart, cmd)
	if err := s.commit(ctx); err != nil {
		s.log.ErrorContext(ctx, "cart commit failed", "command", kindOf(cmd), "error", err)
		return s.cart.Clone(), err
	}

	s.log.DebugContext(ctx, "cart committed",
		"command", kindOf(cmd),
		"lines", len(s.cart),
		"total_items", s.cart.TotalItems(),
		"total_price", s.cart.TotalPrice(),
	)
	return s.cart.Clone(), nil
}

// commit is the on-commit hook: the whole cart replaces the stored value.
func (s *Store) commit(ctx context.Context) error {
	data, err := domain.EncodeSnapshot(s.cart)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// AddToCart adds one unit of p.
func (s *Store) AddToCart(ctx context.Context, p domain.Product) (domain.Cart, error) {
	return s.Dispatch(ctx, domain.AddToCart{Product: p})
}

// UpdateQuantity sets the quantity of line id, clamped to 1..99.
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) (domain.Cart, error) {
	return s.Dispatch(ctx, domain.UpdateQuantity{ID: id, Quantity: quantity})
}

// RemoveFromCart deletes line id.
func (s *Store) RemoveFromCart(ctx context.Context, id int) (domain.Cart, error) {
	return s.Dispatch(ctx, domain.RemoveFromCart{ID: id})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) (domain.Cart, error) {
	return s.Dispatch(ctx, domain.ClearCart{})
}

// Items returns a copy of the current lines.
func (s *Store) Items() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// TotalItems is the sum of quantities in the current cart.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

// TotalPrice is the sum of line subtotals in the current cart.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

func kindOf(cmd domain.Command) string {
	if cmd == nil {
		return "none"
	}
	return cmd.Kind()
}
