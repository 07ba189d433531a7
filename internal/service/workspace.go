package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrRefreshSuperseded is returned by a refresh whose results were discarded
	// because a newer refresh or a reset started while it was in flight.
	ErrRefreshSuperseded = errors.New("refresh superseded")
	// ErrWorkspaceClosed is returned once the owning session has signed out
	ErrWorkspaceClosed = errors.New("workspace closed")
)

// Gateway groups the collection repositories a workspace mirrors
type Gateway struct {
	Packages domain.PackageRepository
	Bookings domain.BookingRepository
	Profiles domain.ProfileRepository
	Orders   domain.OrderRepository
	Tickets  domain.TicketRepository
}

// Snapshot is a consistent read of a workspace. Rows are shared with the
// workspace and must not be modified.
type Snapshot struct {
	Packages       []*domain.Package       `json:"packages"`
	Bookings       []*domain.Booking       `json:"bookings"`
	Customers      []*domain.Customer      `json:"customers"`
	Orders         []*domain.Order         `json:"orders"`
	Tickets        []*domain.SupportTicket `json:"tickets"`
	AdminUsers     []domain.AdminUser      `json:"admin_users"`
	UserStats      domain.UserStats        `json:"user_stats"`
	PaymentStats   domain.PaymentStats     `json:"payment_stats"`
	TicketStats    domain.TicketStats      `json:"ticket_stats"`
	DashboardStats domain.DashboardStats   `json:"dashboard_stats"`
	Loading        bool                    `json:"loading"`
	RefreshedAt    time.Time               `json:"refreshed_at"`
}

// Workspace is one admin session's in-memory mirror of the remote collections
// plus the statistics derived from them. Reads are served from memory; every
// mutation goes to the gateway first and only touches local state on success.
//
// Rows are treated as immutable once stored: updates replace the pointer.
// A delete and an update racing on the same id are not ordered against each
// other; whichever finishes last decides the local row. Mutations that land
// while a refresh is fetching are replayed onto the fetched rows at commit.
type Workspace struct {
	gateway   Gateway
	directory *AdminDirectoryService
	identity  domain.Identity
	now       func() time.Time

	mu          sync.RWMutex
	packages    []*domain.Package
	bookings    []*domain.Booking
	profiles    []*domain.Profile
	customers   []*domain.Customer
	orders      []*domain.Order
	tickets     []*domain.SupportTicket
	adminUsers  []domain.AdminUser
	userStats   domain.UserStats
	payStats    domain.PaymentStats
	ticketStats domain.TicketStats
	dashStats   domain.DashboardStats
	loading     bool
	refreshedAt time.Time

	// generation increments on every refresh start and reset; a refresh only
	// commits if the generation it started with is still current.
	generation uint64
	cancel     context.CancelFunc
	// resets counts Reset calls so a slow admin lookup cannot refill a reset workspace
	resets uint64
	closed bool

	pendingPackages pendingChanges[*domain.Package]
	pendingBookings pendingChanges[*domain.Booking]
	pendingTickets  pendingChanges[*domain.SupportTicket]

	metrics *telemetry.WorkspaceMetrics
}

// collection names in fetch order, used for logs and metrics
var refreshCollections = [5]string{"packages", "bookings", "profiles", "orders", "tickets"}

// NewWorkspace creates an empty workspace for identity
func NewWorkspace(gateway Gateway, directory *AdminDirectoryService, identity domain.Identity, now func() time.Time) *Workspace {
	if now == nil {
		now = time.Now
	}
	w := &Workspace{
		gateway:   gateway,
		directory: directory,
		identity:  identity,
		now:       now,
	}
	w.clearLocked()
	return w
}

// Identity returns the admin this workspace belongs to
func (w *Workspace) Identity() domain.Identity {
	return w.identity
}

// Refresh fetches all five collections concurrently and recomputes every
// derived statistic. A failed fetch is logged and leaves that collection at its
// previous value; the other fetches still commit. The returned error joins the
// per-collection failures and is informational only.
func (w *Workspace) Refresh(ctx context.Context) error {
	ctx, span := otel.Tracer("workspace").Start(ctx, "workspace.Refresh")
	defer span.End()
	span.SetAttributes(attribute.String("admin.id", w.identity.UserID))

	ctx, gen, err := w.beginRefresh(ctx)
	if err != nil {
		return err
	}
	started := time.Now()

	var (
		packages []*domain.Package
		bookings []*domain.Booking
		profiles []*domain.Profile
		orders   []*domain.Order
		tickets  []*domain.SupportTicket
		errs     = make([]error, 5)
	)

	// Every fetch returns nil to the group so that one failure cannot cancel the others
	var g errgroup.Group
	g.Go(func() error {
		res, err := w.gateway.Packages.List(ctx)
		if err != nil {
			errs[0] = fmt.Errorf("%s: %w", refreshCollections[0], err)
			return nil
		}
		packages = res
		return nil
	})
	g.Go(func() error {
		res, err := w.gateway.Bookings.List(ctx)
		if err != nil {
			errs[1] = fmt.Errorf("%s: %w", refreshCollections[1], err)
			return nil
		}
		bookings = res
		return nil
	})
	g.Go(func() error {
		res, err := w.gateway.Profiles.List(ctx)
		if err != nil {
			errs[2] = fmt.Errorf("%s: %w", refreshCollections[2], err)
			return nil
		}
		profiles = res
		return nil
	})
	g.Go(func() error {
		res, err := w.gateway.Orders.List(ctx)
		if err != nil {
			errs[3] = fmt.Errorf("%s: %w", refreshCollections[3], err)
			return nil
		}
		orders = res
		return nil
	})
	g.Go(func() error {
		res, err := w.gateway.Tickets.List(ctx)
		if err != nil {
			errs[4] = fmt.Errorf("%s: %w", refreshCollections[4], err)
			return nil
		}
		tickets = res
		return nil
	})
	_ = g.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		log.Printf("[Workspace] refresh for %s superseded, discarding results", w.identity.Email)
		span.SetAttributes(attribute.Bool("workspace.superseded", true))
		w.metrics.RecordRefresh(ctx, time.Since(started), telemetry.RefreshSuperseded)
		return ErrRefreshSuperseded
	}
	w.cancel()
	w.cancel = nil

	for i, err := range errs {
		if err != nil {
			log.Printf("[Workspace] fetch failed for %s: %v", w.identity.Email, err)
			w.metrics.FetchFailed(ctx, refreshCollections[i])
		}
	}

	if errs[0] == nil {
		w.packages = w.pendingPackages.replay(packages, packageID)
	}
	if errs[1] == nil {
		w.bookings = w.pendingBookings.replay(bookings, bookingID)
	}
	if errs[2] == nil {
		w.profiles = profiles
	}
	if errs[3] == nil {
		w.orders = orders
	}
	if errs[4] == nil {
		w.tickets = w.pendingTickets.replay(tickets, ticketID)
	}
	w.stopPending()

	now := w.now()
	w.customers = domain.BuildCustomers(w.profiles, w.bookings, now)
	w.userStats = domain.ComputeUserStats(w.customers, now)
	w.payStats = domain.ComputePaymentStats(w.orders)
	if w.payStats.Inconsistent() {
		log.Printf("[Workspace] order statuses do not add up: total=%d completed=%d pending=%d",
			w.payStats.TotalOrders, w.payStats.CompletedOrders, w.payStats.PendingOrders)
	}
	w.ticketStats = domain.ComputeTicketStats(w.tickets)
	w.dashStats = domain.ComputeDashboardStats(w.packages, w.bookings)
	w.refreshedAt = now
	w.loading = false

	err = errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "partial refresh")
		w.metrics.RecordRefresh(ctx, time.Since(started), telemetry.RefreshPartial)
	} else {
		w.metrics.RecordRefresh(ctx, time.Since(started), telemetry.RefreshComplete)
	}
	return err
}

// beginRefresh cancels any in-flight refresh and marks the workspace loading
func (w *Workspace) beginRefresh(ctx context.Context) (context.Context, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, 0, ErrWorkspaceClosed
	}
	if w.cancel != nil {
		w.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	w.generation++
	w.cancel = cancel
	w.loading = true
	w.pendingPackages.start()
	w.pendingBookings.start()
	w.pendingTickets.start()
	return ctx, w.generation, nil
}

func (w *Workspace) stopPending() {
	w.pendingPackages.stop()
	w.pendingBookings.stop()
	w.pendingTickets.stop()
}

// Reset empties every collection and statistic and cancels any in-flight refresh
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// Close resets the workspace and refuses any later refresh
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	w.closed = true
}

func (w *Workspace) resetLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.generation++
	w.resets++
	w.stopPending()
	w.clearLocked()
}

// clearLocked puts the workspace back to its signed-out state
func (w *Workspace) clearLocked() {
	w.packages = []*domain.Package{}
	w.bookings = []*domain.Booking{}
	w.profiles = []*domain.Profile{}
	w.customers = []*domain.Customer{}
	w.orders = []*domain.Order{}
	w.tickets = []*domain.SupportTicket{}
	w.adminUsers = []domain.AdminUser{}
	w.userStats = domain.UserStats{}
	w.payStats = domain.PaymentStats{}
	w.ticketStats = domain.TicketStats{}
	w.dashStats = domain.DashboardStats{}
	w.loading = false
	w.refreshedAt = time.Time{}
}

// RefreshAdminUsers reloads the admin list through the directory fallback chain
func (w *Workspace) RefreshAdminUsers(ctx context.Context) ([]domain.AdminUser, error) {
	w.mu.RLock()
	resets, closed := w.resets, w.closed
	w.mu.RUnlock()
	if closed {
		return nil, ErrWorkspaceClosed
	}

	admins := w.directory.List(ctx, w.identity)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWorkspaceClosed
	}
	if w.resets != resets {
		return nil, ErrRefreshSuperseded
	}
	w.adminUsers = admins
	return admins, nil
}

// Snapshot returns the current collections and statistics
func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Snapshot{
		Packages:       cloneRows(w.packages),
		Bookings:       cloneRows(w.bookings),
		Customers:      cloneRows(w.customers),
		Orders:         cloneRows(w.orders),
		Tickets:        cloneRows(w.tickets),
		AdminUsers:     cloneRows(w.adminUsers),
		UserStats:      w.userStats,
		PaymentStats:   w.payStats,
		TicketStats:    w.ticketStats,
		DashboardStats: w.dashStats,
		Loading:        w.loading,
		RefreshedAt:    w.refreshedAt,
	}
}

// Loading reports whether a refresh is in flight
func (w *Workspace) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

// Closed reports whether the owning session has signed out
func (w *Workspace) Closed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}

// Package returns the local row for id
func (w *Workspace) Package(id string) (*domain.Package, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, p := range w.packages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreatePackage validates the draft, inserts it and puts the stored row first
func (w *Workspace) CreatePackage(ctx context.Context, draft *domain.PackageDraft) (*domain.Package, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	pkg, err := w.gateway.Packages.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.packages = append([]*domain.Package{pkg}, w.packages...)
	w.pendingPackages.record(rowCreated, pkg.ID, pkg)
	w.dashStats = domain.ComputeDashboardStats(w.packages, w.bookings)
	return pkg, nil
}

// UpdatePackage applies a partial update and swaps the stored row in place
func (w *Workspace) UpdatePackage(ctx context.Context, id string, patch *domain.PackagePatch) (*domain.Package, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	pkg, err := w.gateway.Packages.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for i, p := range w.packages {
		if p.ID == id {
			w.packages[i] = pkg
			break
		}
	}
	w.pendingPackages.record(rowUpdated, id, pkg)
	w.dashStats = domain.ComputeDashboardStats(w.packages, w.bookings)
	return pkg, nil
}

// DeletePackage removes the package remotely, then locally
func (w *Workspace) DeletePackage(ctx context.Context, id string) error {
	if err := w.gateway.Packages.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.packages = removeByID(w.packages, id, packageID)
	w.pendingPackages.record(rowDeleted, id, nil)
	w.dashStats = domain.ComputeDashboardStats(w.packages, w.bookings)
	return nil
}

// UpdateBookingStatus changes only the status and swaps in the re-joined row
func (w *Workspace) UpdateBookingStatus(ctx context.Context, id, status string) (*domain.Booking, error) {
	if !domain.IsValidBookingStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	booking, err := w.gateway.Bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for i, b := range w.bookings {
		if b.ID == id {
			w.bookings[i] = booking
			break
		}
	}
	w.pendingBookings.record(rowUpdated, id, booking)
	w.dashStats = domain.ComputeDashboardStats(w.packages, w.bookings)
	return booking, nil
}

// DeleteBooking removes the booking remotely, then locally
func (w *Workspace) DeleteBooking(ctx context.Context, id string) error {
	if err := w.gateway.Bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.bookings = removeByID(w.bookings, id, bookingID)
	w.pendingBookings.record(rowDeleted, id, nil)
	w.dashStats = domain.ComputeDashboardStats(w.packages, w.bookings)
	return nil
}

// UpdateUserStatus flips a customer's activity status in memory only. Nothing
// is written to the gateway and the next Refresh recomputes the status.
func (w *Workspace) UpdateUserStatus(id, status string) (*domain.Customer, error) {
	if !domain.IsValidUserStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for i, c := range w.customers {
		if c.ID == id {
			updated := *c
			updated.Status = status
			w.customers[i] = &updated
			w.userStats = domain.ComputeUserStats(w.customers, w.now())
			return &updated, nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdateTicketStatus moves a ticket to any status
func (w *Workspace) UpdateTicketStatus(ctx context.Context, id, status string) (*domain.SupportTicket, error) {
	if !domain.IsValidTicketStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	ticket, err := w.gateway.Tickets.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for i, t := range w.tickets {
		if t.ID == id {
			w.tickets[i] = ticket
			break
		}
	}
	w.pendingTickets.record(rowUpdated, id, ticket)
	w.ticketStats = domain.ComputeTicketStats(w.tickets)
	return ticket, nil
}

// DeleteTicket removes the ticket remotely, then locally
func (w *Workspace) DeleteTicket(ctx context.Context, id string) error {
	if err := w.gateway.Tickets.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.tickets = removeByID(w.tickets, id, ticketID)
	w.pendingTickets.record(rowDeleted, id, nil)
	w.ticketStats = domain.ComputeTicketStats(w.tickets)
	return nil
}

func packageID(p *domain.Package) string { return p.ID }

func bookingID(b *domain.Booking) string { return b.ID }

func ticketID(t *domain.SupportTicket) string { return t.ID }

// removeByID returns a new slice without the row matching id
func removeByID[T any](rows []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if key(r) != id {
			out = append(out, r)
		}
	}
	return out
}

// cloneRows copies rows into a fresh, never-nil slice
func cloneRows[T any](rows []T) []T {
	return append(make([]T, 0, len(rows)), rows...)
}
