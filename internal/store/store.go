package store

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/CafeCart/internal/domain"
	"github.com/utafrali/CafeCart/internal/pubsub"
	"github.com/utafrali/CafeCart/internal/repository"
	apperrors "github.com/utafrali/CafeCart/pkg/errors"
)

// DefaultCheckoutDelay mirrors the original checkout processing time.
const DefaultCheckoutDelay = 2 * time.Second

// Notifier publishes a change notification after every persist.
type Notifier interface {
	Publish(ctx context.Context, n pubsub.Notification) error
}

// Event is delivered to in-process subscribers whenever the cart changes.
// Remote is true when the change originated in another context and the
// cart was reloaded from storage.
type Event struct {
	Op        string
	ItemCount int
	Remote    bool
}

// CheckoutResult is delivered once a scheduled checkout completes.
type CheckoutResult struct {
	ItemCount int
	Totals    domain.Totals
	PlacedAt  time.Time
}

// CartStore owns the canonical in-memory cart for the current context and
// enforces all cart invariants. Every mutation persists the full cart,
// broadcasts a change notification to other contexts, and fires the
// in-process "cart changed" event.
//
// The store works headlessly: it needs no subscribers and no serving
// surface to load, mutate, and count.
type CartStore struct {
	repo     repository.SlotRepository
	notifier Notifier
	logger   *slog.Logger

	origin        string
	checkoutDelay time.Duration

	mu      sync.Mutex
	cart    domain.Cart
	subs    map[int]func(Event)
	nextSub int
}

// Option configures a CartStore.
type Option func(*CartStore)

// WithCheckoutDelay overrides the simulated checkout processing time.
func WithCheckoutDelay(d time.Duration) Option {
	return func(s *CartStore) { s.checkoutDelay = d }
}

// New creates a cart store for one context and loads the shared slot. A
// storage transport failure degrades to an empty cart with a warning; the
// store stays usable for the session either way.
func New(ctx context.Context, repo repository.SlotRepository, notifier Notifier, logger *slog.Logger, opts ...Option) *CartStore {
	s := &CartStore{
		repo:          repo,
		notifier:      notifier,
		logger:        logger,
		origin:        uuid.New().String(),
		checkoutDelay: DefaultCheckoutDelay,
		subs:          make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, err := repo.Load(ctx)
	if err != nil {
		logger.Warn("could not load cart slot, starting empty",
			slog.String("error", err.Error()),
		)
		cart = domain.Cart{Items: []domain.LineItem{}}
	}
	s.cart = cart

	return s
}

// Origin returns this context's identity, carried in every notification it
// publishes so other contexts can tell foreign changes from their own.
func (s *CartStore) Origin() string {
	return s.origin
}

// AddItem validates the candidate and merges it into the cart. An existing
// ID has its quantity incremented by the candidate's quantity (default 1);
// a new ID is appended with optional fields defaulted.
func (s *CartStore) AddItem(ctx context.Context, candidate domain.LineItem) error {
	if candidate.ID == "" {
		return apperrors.InvalidInput("item id is required")
	}
	if candidate.Name == "" {
		return apperrors.InvalidInput("item name is required")
	}
	if math.IsNaN(candidate.Price) || math.IsInf(candidate.Price, 0) {
		return apperrors.InvalidInput("item price must be a number")
	}
	if candidate.Price < 0 {
		return apperrors.InvalidInput("item price must not be negative")
	}

	qty := candidate.Quantity
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	if i := s.cart.FindIndex(candidate.ID); i >= 0 {
		s.cart.Items[i].Quantity += qty
	} else {
		item := candidate
		item.Quantity = qty
		if item.Image == "" {
			item.Image = domain.DefaultImage
		}
		s.cart.Items = append(s.cart.Items, item)
	}
	count := s.cart.ItemCount()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, pubsub.OpUpdated, count)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("item_id", candidate.ID),
		slog.Int("quantity", qty),
		slog.Int("item_count", count),
	)

	return nil
}

// UpdateQuantity sets the quantity of the item with the given ID. A missing
// ID is a silent no-op. A quantity of zero or less removes the item.
func (s *CartStore) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, id)
		return
	}

	s.mu.Lock()
	i := s.cart.FindIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.cart.Items[i].Quantity = quantity
	count := s.cart.ItemCount()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, pubsub.OpUpdated, count)
}

// RemoveItem deletes the item with the given ID. A missing ID is a silent
// no-op and does not persist.
func (s *CartStore) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	i := s.cart.FindIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	count := s.cart.ItemCount()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, pubsub.OpUpdated, count)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("item_id", id),
	)
}

// Clear empties the cart. The storage slot and record format remain; an
// already empty cart is left untouched.
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	if len(s.cart.Items) == 0 {
		s.mu.Unlock()
		return
	}
	s.cart.Items = []domain.LineItem{}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, pubsub.OpCleared, 0)

	s.logger.InfoContext(ctx, "cart cleared")
}

// Items returns a snapshot of the cart contents in insertion order.
func (s *CartStore) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone().Items
}

// Totals computes the derived order totals from the current state.
func (s *CartStore) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ComputeTotals()
}

// ItemCount returns the total unit count, zero for an empty cart.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Subscribe registers an in-process listener for cart change events and
// returns its unsubscribe function. Listeners are invoked synchronously in
// mutation order.
func (s *CartStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Checkout rejects an empty cart, otherwise schedules order completion
// after the configured delay and returns immediately. Completion always
// succeeds: the cart is cleared, persisted, and broadcast, and the result
// is delivered on the returned channel.
func (s *CartStore) Checkout(ctx context.Context) (<-chan CheckoutResult, error) {
	s.mu.Lock()
	if len(s.cart.Items) == 0 {
		s.mu.Unlock()
		return nil, apperrors.InvalidInput("cart is empty")
	}
	count := s.cart.ItemCount()
	totals := s.cart.ComputeTotals()
	s.mu.Unlock()

	done := make(chan CheckoutResult, 1)

	// The delay is cosmetic; completion must happen even if the request
	// that triggered it has since gone away.
	bg := context.WithoutCancel(ctx)
	go func() {
		time.Sleep(s.checkoutDelay)

		s.mu.Lock()
		s.cart.Items = []domain.LineItem{}
		s.persistLocked(bg)
		s.mu.Unlock()

		s.notify(bg, pubsub.OpCleared, 0)

		s.logger.Info("order placed",
			slog.Int("item_count", count),
			slog.String("total", totals.Total),
		)

		done <- CheckoutResult{
			ItemCount: count,
			Totals:    totals,
			PlacedAt:  time.Now().UTC(),
		}
	}()

	return done, nil
}

// HandleNotification reacts to a change notification from the broadcast
// channel. Changes published by this context are ignored (the in-memory
// copy is already authoritative); foreign changes discard the in-memory
// cart in favor of a fresh load from storage.
func (s *CartStore) HandleNotification(ctx context.Context, n pubsub.Notification) {
	if n.Origin == s.origin {
		return
	}

	cart, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("could not reload cart after foreign change",
			slog.String("origin", n.Origin),
			slog.String("error", err.Error()),
		)
		return
	}

	s.mu.Lock()
	s.cart = cart
	count := s.cart.ItemCount()
	s.mu.Unlock()

	s.emit(Event{Op: n.Op, ItemCount: count, Remote: true})

	s.logger.DebugContext(ctx, "cart reloaded after foreign change",
		slog.String("origin", n.Origin),
		slog.String("op", n.Op),
		slog.Int("item_count", count),
	)
}

// persistLocked saves the cart while holding the mutex. A write failure is
// a non-fatal warning: the in-memory cart stays authoritative for the rest
// of the session.
func (s *CartStore) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.cart); err != nil {
		s.logger.Warn("cart persist failed, keeping in-memory state",
			slog.String("error", err.Error()),
		)
	}
}

// notify broadcasts the change to other contexts and fires the local event.
func (s *CartStore) notify(ctx context.Context, op string, count int) {
	if s.notifier != nil {
		n := pubsub.Notification{Origin: s.origin, Op: op, ItemCount: count}
		if err := s.notifier.Publish(ctx, n); err != nil {
			s.logger.Warn("change notification failed",
				slog.String("op", op),
				slog.String("error", err.Error()),
			)
		}
	}

	s.emit(Event{Op: op, ItemCount: count})
}

// emit delivers an event to every subscriber outside the state mutex.
func (s *CartStore) emit(e Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
