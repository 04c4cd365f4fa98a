package order

import (
	"context"
	"sync"

	"canteen-be/internal/notify"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository. Writes apply immediately, so it only
// models transactions whose failures happen before the first write.
type memRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*Order
	canteens  map[uuid.UUID]*Canteen
	placed    map[uuid.UUID]int
	completed map[uuid.UUID]int
	wallets   map[uuid.UUID]int64
	foods     map[uuid.UUID]uuid.UUID
	timesSold map[uuid.UUID]int
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:    make(map[uuid.UUID]*Order),
		canteens:  make(map[uuid.UUID]*Canteen),
		placed:    make(map[uuid.UUID]int),
		completed: make(map[uuid.UUID]int),
		wallets:   make(map[uuid.UUID]int64),
		foods:     make(map[uuid.UUID]uuid.UUID),
		timesSold: make(map[uuid.UUID]int),
	}
}

func (m *memRepo) addCanteen(name, shop string) uuid.UUID {
	id := uuid.New()
	m.canteens[id] = &Canteen{ID: id, Name: name, ShopName: shop}
	return id
}

func (m *memRepo) addFood(canteenID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.foods[id] = canteenID
	return id
}

func (m *memRepo) addBuyer(wallet int64) uuid.UUID {
	id := uuid.New()
	m.wallets[id] = wallet
	return id
}

func (m *memRepo) addOrder(buyerID, foodID uuid.UUID, status Status, qty int, cost int64) uuid.UUID {
	id := uuid.New()
	m.orders[id] = &Order{
		ID:        id,
		BuyerID:   buyerID,
		FoodID:    foodID,
		CanteenID: m.foods[foodID],
		Quantity:  qty,
		Cost:      cost,
		Status:    status,
	}
	return id
}

func (m *memRepo) status(id uuid.UUID) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id].Status
}

func (m *memRepo) WithTx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memRepo) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.orders {
		if o.CanteenID == canteenID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Rating = rating
	return nil
}

func (m *memRepo) RatingsByFood(ctx context.Context, foodID uuid.UUID) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int
	for _, o := range m.orders {
		if o.FoodID == foodID && o.Rating >= 1 {
			out = append(out, o.Rating)
		}
	}
	return out, nil
}

func (m *memRepo) CountPending(ctx context.Context, vendorID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if o.CanteenID == vendorID && o.Status >= StatusAccepted && o.Status <= StatusReadyForPickup {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	return m.GetOrder(ctx, id)
}

func (m *memRepo) LockVendor(ctx context.Context, vendorID uuid.UUID) (*Canteen, error) {
	return m.GetCanteen(ctx, vendorID)
}

func (m *memRepo) GetCanteen(ctx context.Context, vendorID uuid.UUID) (*Canteen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.canteens[vendorID]
	if !ok {
		return nil, ErrVendorNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) CountActiveOrders(ctx context.Context, vendorID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if o.CanteenID == vendorID && o.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (m *memRepo) IncrementTimesSold(ctx context.Context, foodID uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timesSold[foodID] += quantity
	return nil
}

func (m *memRepo) IncrementCompleted(ctx context.Context, vendorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[vendorID]++
	return nil
}

func (m *memRepo) IncrementPlaced(ctx context.Context, vendorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placed[vendorID]++
	return nil
}

func (m *memRepo) CreditWallet(ctx context.Context, buyerID uuid.UUID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[buyerID]; !ok {
		return ErrBuyerNotFound
	}
	m.wallets[buyerID] += amount
	return nil
}

func (m *memRepo) DebitWallet(ctx context.Context, buyerID uuid.UUID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.wallets[buyerID]
	if !ok {
		return ErrBuyerNotFound
	}
	if balance < amount {
		return ErrInsufficientFunds
	}
	m.wallets[buyerID] = balance - amount
	return nil
}

func (m *memRepo) FoodCanteen(ctx context.Context, foodID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.foods[foodID]
	if !ok {
		return uuid.Nil, ErrFoodNotFound
	}
	return c, nil
}

func (m *memRepo) InsertOrder(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (r *recordingNotifier) Notify(ctx context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Action)
	}
	return out
}
