package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

// TransactorStub runs callbacks directly and counts them.
type TransactorStub struct {
	mu    sync.Mutex
	Calls int
	Err   error
}

// WithinTx invokes fn unless Err is configured.
func (s *TransactorStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.Calls++
	err := s.Err
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(ctx)
}

// OrderRepositoryStub keeps orders in memory and applies status changes with
// compare-and-set semantics.
type OrderRepositoryStub struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*model.Order
	changes  []model.OrderStatusChange
	released []uuid.UUID

	// BeforeUpdate runs under the store lock before the compare-and-set and
	// may mutate the stored order to simulate a concurrent writer.
	BeforeUpdate func(stored *model.Order)
	CreateErr    error
	GetErr       error
	UpdateErr    error
	Releases     *StockReleaseRepositoryStub
	Now          func() time.Time
}

// NewOrderRepositoryStub constructs an empty store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[uuid.UUID]*model.Order)}
}

func (s *OrderRepositoryStub) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Put stores order as is.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[uuid.UUID]*model.Order)
	}
	stored := cloneOrder(order)
	s.orders[order.ID] = &stored
}

// Create inserts order unless the id or number is taken.
func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if s.orders == nil {
		s.orders = make(map[uuid.UUID]*model.Order)
	}
	for id, o := range s.orders {
		if id == order.ID || o.Number == order.Number {
			return domainErrors.ErrAlreadyExists
		}
	}
	order.CreatedAt = s.now()
	order.UpdatedAt = order.CreatedAt
	stored := cloneOrder(*order)
	s.orders[order.ID] = &stored
	return nil
}

// Get returns a copy of the stored order.
func (s *OrderRepositoryStub) Get(_ context.Context, id uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	c := cloneOrder(*o)
	return &c, nil
}

// ListByUser returns orders owned by userID, newest first.
func (s *OrderRepositoryStub) ListByUser(_ context.Context, userID int64, limit int) ([]model.Order, error) {
	return s.list(func(o *model.Order) bool { return o.UserID == userID }, limit), nil
}

// ListAll returns every order, newest first.
func (s *OrderRepositoryStub) ListAll(_ context.Context, limit int) ([]model.Order, error) {
	return s.list(func(*model.Order) bool { return true }, limit), nil
}

func (s *OrderRepositoryStub) list(match func(*model.Order) bool, limit int) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if match(o) {
			res = append(res, cloneOrder(*o))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// UpdateStatus applies change while the stored status still equals change.From.
func (s *OrderRepositoryStub) UpdateStatus(_ context.Context, change model.StatusChange) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return time.Time{}, s.UpdateErr
	}
	o, ok := s.orders[change.OrderID]
	if !ok {
		return time.Time{}, domainErrors.ErrConflict
	}
	if s.BeforeUpdate != nil {
		s.BeforeUpdate(o)
	}
	if o.Status != change.From {
		return time.Time{}, domainErrors.ErrConflict
	}

	now := s.now()
	o.Status = change.To
	o.PaymentStatus = change.PaymentStatus
	o.UpdatedAt = now
	s.changes = append(s.changes, model.OrderStatusChange{
		OrderID:       change.OrderID,
		From:          change.From,
		To:            change.To,
		PaymentStatus: change.PaymentStatus,
		ActorID:       change.Actor.UserID,
		ActorRole:     change.Actor.Role,
		ChangedAt:     now,
	})
	if change.ReleaseStock {
		s.released = append(s.released, change.OrderID)
		if s.Releases != nil {
			s.Releases.Enqueue(change.OrderID)
		}
	}
	return now, nil
}

// UpdatePaymentStatus applies next while the stored payment status equals expected.
func (s *OrderRepositoryStub) UpdatePaymentStatus(_ context.Context, id uuid.UUID, expected, next model.PaymentStatus) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return time.Time{}, s.UpdateErr
	}
	o, ok := s.orders[id]
	if !ok || o.PaymentStatus != expected || o.Status.Terminal() {
		return time.Time{}, domainErrors.ErrConflict
	}
	o.PaymentStatus = next
	o.UpdatedAt = s.now()
	return o.UpdatedAt, nil
}

// History returns recorded transitions of orderID in order.
func (s *OrderRepositoryStub) History(_ context.Context, orderID uuid.UUID) ([]model.OrderStatusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []model.OrderStatusChange
	for _, c := range s.changes {
		if c.OrderID == orderID {
			res = append(res, c)
		}
	}
	return res, nil
}

// Released returns ids of orders whose stock release was enqueued.
func (s *OrderRepositoryStub) Released() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.released...)
}

func cloneOrder(o model.Order) model.Order {
	o.Lines = append([]model.OrderLine(nil), o.Lines...)
	if o.VoucherID != nil {
		id := *o.VoucherID
		o.VoucherID = &id
	}
	return o
}

// CatalogStub serves a fixed product list.
type CatalogStub struct {
	Items map[int64]model.Product
	Err   error
}

// Products returns known products among ids.
func (s CatalogStub) Products(_ context.Context, ids []int64) (map[int64]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	res := make(map[int64]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.Items[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

// VoucherRepositoryStub is an in-memory voucher ledger with a conditional redeem.
type VoucherRepositoryStub struct {
	mu       sync.Mutex
	vouchers map[int64]*model.Voucher
	Err      error
}

// NewVoucherRepositoryStub stores the supplied vouchers.
func NewVoucherRepositoryStub(vouchers ...model.Voucher) *VoucherRepositoryStub {
	s := &VoucherRepositoryStub{vouchers: make(map[int64]*model.Voucher)}
	for _, v := range vouchers {
		v := v
		v.Code = model.NormalizeVoucherCode(v.Code)
		s.vouchers[v.ID] = &v
	}
	return s
}

// GetByCode finds voucher by normalised code.
func (s *VoucherRepositoryStub) GetByCode(_ context.Context, code string) (*model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	code = model.NormalizeVoucherCode(code)
	for _, v := range s.vouchers {
		if v.Code == code {
			c := *v
			return &c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID finds voucher by id.
func (s *VoucherRepositoryStub) GetByID(_ context.Context, id int64) (*model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	v, ok := s.vouchers[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	c := *v
	return &c, nil
}

// Redeem increments used count when the voucher is redeemable at now.
func (s *VoucherRepositoryStub) Redeem(_ context.Context, id int64, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	v, ok := s.vouchers[id]
	if !ok || !v.Active || now.Before(v.ValidFrom) || now.After(v.ValidUntil) || v.Exhausted() {
		return false, nil
	}
	v.UsedCount++
	return true, nil
}

// UsedCount returns the stored counter of voucher id.
func (s *VoucherRepositoryStub) UsedCount(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vouchers[id]; ok {
		return v.UsedCount
	}
	return 0
}

// NotificationRepositoryStub keeps notification logs and unread counters.
type NotificationRepositoryStub struct {
	mu     sync.Mutex
	items  []model.Notification
	unread map[int64]int64
	Err    error
}

// NewNotificationRepositoryStub constructs an empty log.
func NewNotificationRepositoryStub() *NotificationRepositoryStub {
	return &NotificationRepositoryStub{unread: make(map[int64]int64)}
}

// Append stores n and increments the owner's counter.
func (s *NotificationRepositoryStub) Append(_ context.Context, n model.Notification) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if s.unread == nil {
		s.unread = make(map[int64]int64)
	}
	n.Read = false
	s.items = append(s.items, n)
	s.unread[n.UserID]++
	return s.unread[n.UserID], nil
}

func (s *NotificationRepositoryStub) owned(id uuid.UUID, userID int64) (int, error) {
	for i, n := range s.items {
		if n.ID == id {
			if n.UserID != userID {
				return -1, domainErrors.ErrForbidden
			}
			return i, nil
		}
	}
	return -1, domainErrors.ErrNotFound
}

// MarkRead marks one notification as read.
func (s *NotificationRepositoryStub) MarkRead(_ context.Context, id uuid.UUID, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	i, err := s.owned(id, userID)
	if err != nil {
		return 0, err
	}
	if !s.items[i].Read {
		s.items[i].Read = true
		s.unread[userID]--
	}
	return s.unread[userID], nil
}

// MarkAllRead marks every notification of userID as read.
func (s *NotificationRepositoryStub) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for i := range s.items {
		if s.items[i].UserID == userID {
			s.items[i].Read = true
		}
	}
	s.unread[userID] = 0
	return 0, nil
}

// Delete removes one notification.
func (s *NotificationRepositoryStub) Delete(_ context.Context, id uuid.UUID, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	i, err := s.owned(id, userID)
	if err != nil {
		return 0, err
	}
	if !s.items[i].Read {
		s.unread[userID]--
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.unread[userID], nil
}

// List returns notifications of userID, newest first.
func (s *NotificationRepositoryStub) List(_ context.Context, userID int64, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var res []model.Notification
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UserID == userID {
			res = append(res, s.items[i])
		}
	}
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// UnreadCount returns the counter of userID.
func (s *NotificationRepositoryStub) UnreadCount(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.unread[userID], nil
}

// UnreadRows counts unread records of userID directly from the log.
func (s *NotificationRepositoryStub) UnreadRows(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, item := range s.items {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n
}

// StockReleaseEntry is the stored state of an outbox row.
type StockReleaseEntry struct {
	Release     model.StockRelease
	State       model.StockReleaseState
	AvailableAt time.Time
}

// StockReleaseRepositoryStub is an in-memory release outbox.
type StockReleaseRepositoryStub struct {
	mu      sync.Mutex
	entries []*StockReleaseEntry
	next    int64
	Err     error
}

// Enqueue adds a pending release for orderID.
func (s *StockReleaseRepositoryStub) Enqueue(orderID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.entries = append(s.entries, &StockReleaseEntry{
		Release: model.StockRelease{ID: s.next, OrderID: orderID, CreatedAt: time.Now().UTC()},
		State:   model.StockReleasePending,
	})
	return s.next
}

// ClaimBatch leases due entries.
func (s *StockReleaseRepositoryStub) ClaimBatch(_ context.Context, limit int, lease time.Duration) ([]model.StockRelease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	now := time.Now()
	var res []model.StockRelease
	for _, e := range s.entries {
		if len(res) >= limit {
			break
		}
		if (e.State == model.StockReleasePending || e.State == model.StockReleaseProcessing) && !e.AvailableAt.After(now) {
			e.State = model.StockReleaseProcessing
			e.Release.Attempts++
			e.AvailableAt = now.Add(lease)
			res = append(res, e.Release)
		}
	}
	return res, nil
}

// MarkDone completes entry id.
func (s *StockReleaseRepositoryStub) MarkDone(_ context.Context, id int64) error {
	return s.update(id, func(e *StockReleaseEntry) { e.State = model.StockReleaseDone })
}

// Reschedule moves entry id to state, due at at.
func (s *StockReleaseRepositoryStub) Reschedule(_ context.Context, id int64, at time.Time, state model.StockReleaseState) error {
	return s.update(id, func(e *StockReleaseEntry) {
		e.State = state
		e.AvailableAt = at
	})
}

func (s *StockReleaseRepositoryStub) update(id int64, fn func(*StockReleaseEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, e := range s.entries {
		if e.Release.ID == id {
			fn(e)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// Entry returns a copy of entry id.
func (s *StockReleaseRepositoryStub) Entry(id int64) (StockReleaseEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Release.ID == id {
			return *e, true
		}
	}
	return StockReleaseEntry{}, false
}

var (
	_ repository.Transactor             = (*TransactorStub)(nil)
	_ repository.OrderRepository        = (*OrderRepositoryStub)(nil)
	_ repository.CatalogRepository      = CatalogStub{}
	_ repository.VoucherRepository      = (*VoucherRepositoryStub)(nil)
	_ repository.NotificationRepository = (*NotificationRepositoryStub)(nil)
	_ repository.StockReleaseRepository = (*StockReleaseRepositoryStub)(nil)
)
