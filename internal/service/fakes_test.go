package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
)

var errGatewayDown = errors.New("gateway unavailable")

// gate lets a test hold a fetch until it is released or its context ends
type gate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakePackages struct {
	mu      sync.Mutex
	rows    []*domain.Package
	listErr error
	err     error
	gate    *gate
	seq     int
	lists   int
}

func (f *fakePackages) List(ctx context.Context) ([]*domain.Package, error) {
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*domain.Package{}, f.rows...), nil
}

func (f *fakePackages) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePackages) Create(ctx context.Context, draft *domain.PackageDraft) (*domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	pkg := &domain.Package{
		ID:               fmt.Sprintf("pkg-new-%d", f.seq),
		Title:            draft.Title,
		Price:            draft.Price,
		ShortDescription: draft.ShortDescription,
		Destination:      draft.Destination,
		Status:           draft.Status,
		Images:           draft.Images,
		Itinerary:        draft.Itinerary,
		Inclusions:       draft.Inclusions,
		Exclusions:       draft.Exclusions,
		CreatedAt:        time.Now(),
	}
	f.rows = append([]*domain.Package{pkg}, f.rows...)
	return pkg, nil
}

func (f *fakePackages) Update(ctx context.Context, id string, patch *domain.PackagePatch) (*domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, p := range f.rows {
		if p.ID == id {
			updated := *p
			if patch.Title != nil {
				updated.Title = *patch.Title
			}
			if patch.Status != nil {
				updated.Status = *patch.Status
			}
			if patch.Price != nil {
				updated.Price = *patch.Price
			}
			f.rows[i] = &updated
			return &updated, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePackages) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, p := range f.rows {
		if p.ID == id {
			f.rows = append(f.rows[:i:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakePackages) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

type fakeBookings struct {
	mu      sync.Mutex
	rows    []*domain.Booking
	listErr error
	err     error
	gate    *gate
}

func (f *fakeBookings) List(ctx context.Context) ([]*domain.Booking, error) {
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*domain.Booking{}, f.rows...), nil
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, id, status string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, b := range f.rows {
		if b.ID == id {
			updated := *b
			updated.Status = status
			updated.ApplyJoinFallbacks()
			f.rows[i] = &updated
			return &updated, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBookings) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, b := range f.rows {
		if b.ID == id {
			f.rows = append(f.rows[:i:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeBookings) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

type fakeProfiles struct {
	rows    []*domain.Profile
	listErr error
}

func (f *fakeProfiles) List(ctx context.Context) ([]*domain.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*domain.Profile{}, f.rows...), nil
}

func (f *fakeProfiles) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeOrders struct {
	rows    []*domain.Order
	listErr error
}

func (f *fakeOrders) List(ctx context.Context) ([]*domain.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*domain.Order{}, f.rows...), nil
}

func (f *fakeOrders) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeTickets struct {
	mu      sync.Mutex
	rows    []*domain.SupportTicket
	listErr error
	err     error
}

func (f *fakeTickets) List(ctx context.Context) ([]*domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*domain.SupportTicket{}, f.rows...), nil
}

func (f *fakeTickets) UpdateStatus(ctx context.Context, id, status string) (*domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, t := range f.rows {
		if t.ID == id {
			updated := *t
			updated.Status = status
			f.rows[i] = &updated
			return &updated, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTickets) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, t := range f.rows {
		if t.ID == id {
			f.rows = append(f.rows[:i:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeTickets) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeDirectory struct {
	admins []domain.AdminUser
	err    error
	panics bool
}

func (f *fakeDirectory) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	if f.panics {
		panic("directory exploded")
	}
	return f.admins, f.err
}

func (f *fakeDirectory) CreateAdmin(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	admin := domain.AdminUser{ID: "created", Email: email, Role: domain.RoleAdmin}
	f.admins = append(f.admins, admin)
	return &admin, nil
}

// fixedNow is the clock every service test runs against
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeGateway struct {
	packages *fakePackages
	bookings *fakeBookings
	profiles *fakeProfiles
	orders   *fakeOrders
	tickets  *fakeTickets
}

func (f *fakeGateway) gateway() Gateway {
	return Gateway{
		Packages: f.packages,
		Bookings: f.bookings,
		Profiles: f.profiles,
		Orders:   f.orders,
		Tickets:  f.tickets,
	}
}

func seededGateway() *fakeGateway {
	return &fakeGateway{
		packages: &fakePackages{rows: []*domain.Package{
			{ID: "pkg-2", Title: "Goa Beaches", Status: domain.PackageStatusActive, CreatedAt: fixedNow.AddDate(0, 0, -1)},
			{ID: "pkg-1", Title: "Kashmir Lakes", Status: domain.PackageStatusInactive, CreatedAt: fixedNow.AddDate(0, 0, -5)},
		}},
		bookings: &fakeBookings{rows: []*domain.Booking{
			{ID: "b-1", UserID: "u-1", PackageID: "pkg-2", Status: domain.BookingStatusPending, CreatedAt: fixedNow.AddDate(0, 0, -10), UserName: "Asha", PackageTitle: "Goa Beaches"},
			{ID: "b-2", UserID: "u-2", PackageID: "pkg-1", Status: domain.BookingStatusConfirmed, CreatedAt: fixedNow.AddDate(0, 0, -40), UserName: "Ravi", PackageTitle: "Kashmir Lakes"},
		}},
		profiles: &fakeProfiles{rows: []*domain.Profile{
			{ID: "u-1", FullName: "Asha", CreatedAt: fixedNow.AddDate(0, 0, -3)},
			{ID: "u-2", FullName: "Ravi", CreatedAt: fixedNow.AddDate(0, -3, 0)},
			{ID: "u-3", CreatedAt: fixedNow.AddDate(-1, 0, 0)},
		}},
		orders: &fakeOrders{rows: []*domain.Order{
			{ID: "o-1", Status: domain.OrderStatusCompleted, AmountTotal: 150000},
			{ID: "o-2", Status: domain.OrderStatusCompleted, AmountTotal: 50000},
			{ID: "o-3", Status: domain.OrderStatusPending, AmountTotal: 99999},
		}},
		tickets: &fakeTickets{rows: []*domain.SupportTicket{
			{ID: "t-1", Subject: "Refund", Status: domain.TicketStatusOpen, CreatedAt: fixedNow.AddDate(0, 0, -3)},
			{ID: "t-2", Subject: "Visa", Status: domain.TicketStatusResolved, CreatedAt: fixedNow.AddDate(0, 0, -1)},
		}},
	}
}

var testAdmin = domain.Identity{UserID: "admin-uid", Email: "admin@travelmate.com", Role: domain.RoleAdmin}

func (f *fakePackages) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}
