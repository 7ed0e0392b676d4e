package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"kiosk-order/cart"
	"kiosk-order/repositories"
)

var (
	ErrLineItemNotFound = errors.New("line item not found")
	ErrInvalidTaxRate   = errors.New("tax rate must not be negative")
	ErrCartUnavailable  = errors.New("cart storage is unavailable")
	ErrCartDiscarded    = errors.New("cart was discarded at logout")
	ErrCartBusy         = errors.New("cart is being changed elsewhere, try again")
)

const maxCartAttempts = 5

// CartStore persists one cart snapshot per device session.
//
// Save must write snap only while the stored revision equals expected (zero
// when nothing is stored) and return repositories.ErrCartConflict otherwise.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Snapshot, error)
	Save(ctx context.Context, sessionID string, snap cart.Snapshot, expected int64) error
}

// Selection is a resolved menu choice ready to be added to a cart.
type Selection struct {
	Input        cart.LineItemInput
	StoreID      string
	StoreTaxRate decimal.NullDecimal
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// CartService applies cart operations against the CartStore, which holds the
// current cart of every device session. Nothing outlives a call except the
// lock of a session that still has callers waiting on it.
type CartService struct {
	store   CartStore
	taxRate decimal.Decimal
	logger  *zap.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

func NewCartService(store CartStore, defaultTaxRate decimal.Decimal, logger *zap.Logger) *CartService {
	return &CartService{
		store:   store,
		taxRate: defaultTaxRate,
		logger:  logger,
		locks:   make(map[string]*sessionLock),
	}
}

// lock serializes the calls of one session inside this process and returns
// the matching unlock.
func (s *CartService) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

// read returns the stored cart and its revision. A session without a blob
// gets an empty cart at revision zero.
func (s *CartService) read(ctx context.Context, sessionID string) (cart.State, int64, error) {
	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed to load cart",
			zap.String("session_id", sessionID), zap.Error(err))
		return cart.State{}, 0, ErrCartUnavailable
	}
	if snap == nil {
		return cart.New(s.taxRate), 0, nil
	}
	if snap.Discarded {
		return cart.State{}, snap.Revision, ErrCartDiscarded
	}
	return cart.Restore(*snap, s.taxRate), snap.Revision, nil
}

// write stores state on top of revision. Only a conflict is returned; any
// other failure is logged and the caller keeps the new state.
func (s *CartService) write(ctx context.Context, sessionID string, state cart.State, revision int64) error {
	snap := state.Snapshot()
	snap.Revision = revision + 1

	err := s.store.Save(ctx, sessionID, snap, revision)
	if errors.Is(err, repositories.ErrCartConflict) {
		return err
	}
	if err != nil {
		s.logger.Warn("failed to persist cart",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

// update runs fn on the latest stored cart. When another writer got in
// between, the cart is reloaded and fn runs again, so fn must be pure.
func (s *CartService) update(ctx context.Context, sessionID string, fn func(cart.State) (cart.State, error)) (cart.State, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		current, revision, err := s.read(ctx, sessionID)
		if err != nil {
			return current, err
		}

		next, err := fn(current)
		if err != nil {
			return current, err
		}
		if err := s.write(ctx, sessionID, next, revision); err == nil {
			return next, nil
		}
		s.logger.Debug("cart changed concurrently, retrying",
			zap.String("session_id", sessionID), zap.Int("attempt", attempt+1))
	}
	return cart.State{}, ErrCartBusy
}

func (s *CartService) Get(ctx context.Context, sessionID string) (cart.State, error) {
	state, _, err := s.read(ctx, sessionID)
	return state, err
}

// AddItem adds the selection, switching the cart to the selection's store
// when needed. A cart that gets bound to a new store takes that store's tax
// rate, or the default rate when the store has none.
func (s *CartService) AddItem(ctx context.Context, sessionID string, sel Selection) (cart.State, error) {
	return s.update(ctx, sessionID, func(current cart.State) (cart.State, error) {
		next := cart.AddItemTo(current, sel.Input, sel.StoreID)
		if next.BoundStoreID != current.BoundStoreID {
			rate := s.taxRate
			if sel.StoreTaxRate.Valid {
				rate = sel.StoreTaxRate.Decimal
			}
			next = cart.WithTaxRate(next, rate)
		}
		return next, nil
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, lineItemID string, quantity int) (cart.State, error) {
	return s.update(ctx, sessionID, func(current cart.State) (cart.State, error) {
		if _, ok := current.Find(lineItemID); !ok {
			return current, ErrLineItemNotFound
		}
		return cart.UpdateItemQuantity(current, lineItemID, quantity), nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, lineItemID string) (cart.State, error) {
	return s.update(ctx, sessionID, func(current cart.State) (cart.State, error) {
		if _, ok := current.Find(lineItemID); !ok {
			return current, ErrLineItemNotFound
		}
		return cart.RemoveItemFrom(current, lineItemID), nil
	})
}

func (s *CartService) UpdateNotes(ctx context.Context, sessionID, lineItemID, notes string) (cart.State, error) {
	return s.update(ctx, sessionID, func(current cart.State) (cart.State, error) {
		if _, ok := current.Find(lineItemID); !ok {
			return current, ErrLineItemNotFound
		}
		return cart.UpdateItemNotes(current, lineItemID, notes), nil
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (cart.State, error) {
	return s.update(ctx, sessionID, func(current cart.State) (cart.State, error) {
		return cart.Clear(current), nil
	})
}

func (s *CartService) SetTaxRate(ctx context.Context, sessionID string, rate decimal.Decimal) (cart.State, error) {
	if rate.IsNegative() {
		state, _ := s.Get(ctx, sessionID)
		return state, ErrInvalidTaxRate
	}
	return s.update(ctx, sessionID, func(current cart.State) (cart.State, error) {
		return cart.WithTaxRate(current, rate), nil
	})
}

// Drain hands the current cart to submit and clears it only when submit
// succeeds. submit runs once. Lines another writer added after the cart was
// read are kept; only the submitted lines are removed.
func (s *CartService) Drain(ctx context.Context, sessionID string, submit func(cart.State) error) error {
	unlock := s.lock(sessionID)
	defer unlock()

	submitted, revision, err := s.read(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := submit(submitted); err != nil {
		return err
	}

	next := cart.Clear(submitted)
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		if err := s.write(ctx, sessionID, next, revision); err == nil {
			return nil
		}

		var latest cart.State
		latest, revision, err = s.read(ctx, sessionID)
		if err != nil {
			s.logger.Warn("order placed but cart was not cleared",
				zap.String("session_id", sessionID), zap.Error(err))
			return nil
		}
		next = latest
		for _, item := range submitted.Items {
			next = cart.RemoveItemFrom(next, item.ID)
		}
	}

	s.logger.Warn("order placed but cart was not cleared",
		zap.String("session_id", sessionID), zap.Error(ErrCartBusy))
	return nil
}

// Discard replaces the session cart with a discarded marker, dropping its
// lines and store binding. Writes that arrive after it fail with
// ErrCartDiscarded instead of bringing the cart back.
func (s *CartService) Discard(ctx context.Context, sessionID string) {
	unlock := s.lock(sessionID)
	defer unlock()

	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		snap, err := s.store.Load(ctx, sessionID)
		if err != nil {
			s.logger.Warn("failed to load cart for discard",
				zap.String("session_id", sessionID), zap.Error(err))
			return
		}

		state, revision := cart.New(s.taxRate), int64(0)
		if snap != nil {
			if snap.Discarded {
				return
			}
			state, revision = cart.Restore(*snap, s.taxRate), snap.Revision
		}

		marker := cart.Reduce(state, cart.Reset{}).Snapshot()
		marker.Discarded = true
		marker.Revision = revision + 1

		err = s.store.Save(ctx, sessionID, marker, revision)
		if err == nil {
			return
		}
		if !errors.Is(err, repositories.ErrCartConflict) {
			s.logger.Warn("failed to discard cart",
				zap.String("session_id", sessionID), zap.Error(err))
			return
		}
	}

	s.logger.Warn("failed to discard cart",
		zap.String("session_id", sessionID), zap.Error(ErrCartBusy))
}
