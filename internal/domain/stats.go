package domain

import (
	"strings"
	"time"
)

// UserStats summarizes the customer base at fetch time
type UserStats struct {
	TotalUsers        int `json:"total_users"`
	ActiveUsers       int `json:"active_users"`
	NewUsersThisMonth int `json:"new_users_this_month"`
	WithProfiles      int `json:"with_profiles"`
}

// PaymentStats summarizes orders. Revenue figures are in major currency units.
type PaymentStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	PendingOrders     int     `json:"pending_orders"`
	OtherOrders       int     `json:"other_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// Inconsistent reports whether the order statuses did not add up,
// which happens when an order carries a status outside the known set.
func (s PaymentStats) Inconsistent() bool {
	return s.OtherOrders < 0
}

// TicketStats counts support tickets per status
type TicketStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// DashboardStats are the headline counters on the console home page
type DashboardStats struct {
	TotalPackages   int `json:"total_packages"`
	ActivePackages  int `json:"active_packages"`
	PendingBookings int `json:"pending_bookings"`
	TotalBookings   int `json:"total_bookings"`
}

// BuildCustomers derives per-profile booking activity. A customer is active iff
// one of their bookings was created within ActivityWindow before now.
func BuildCustomers(profiles []*Profile, bookings []*Booking, now time.Time) []*Customer {
	type activity struct {
		last  time.Time
		total int
	}
	byUser := make(map[string]*activity, len(profiles))
	for _, b := range bookings {
		a, ok := byUser[b.UserID]
		if !ok {
			a = &activity{}
			byUser[b.UserID] = a
		}
		a.total++
		if b.CreatedAt.After(a.last) {
			a.last = b.CreatedAt
		}
	}

	cutoff := now.Add(-ActivityWindow)
	customers := make([]*Customer, 0, len(profiles))
	for _, p := range profiles {
		c := &Customer{Profile: *p, Status: UserStatusInactive}
		if a, ok := byUser[p.ID]; ok {
			last := a.last
			c.LastBookingAt = &last
			c.TotalBookings = a.total
			if !last.Before(cutoff) {
				c.Status = UserStatusActive
			}
		}
		customers = append(customers, c)
	}
	return customers
}

// ComputeUserStats counts customers. New users are those created since the
// first day of now's calendar month, not within a rolling window.
func ComputeUserStats(customers []*Customer, now time.Time) UserStats {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := UserStats{TotalUsers: len(customers)}
	for _, c := range customers {
		if c.Status == UserStatusActive {
			stats.ActiveUsers++
		}
		if !c.CreatedAt.Before(monthStart) && !c.CreatedAt.After(now) {
			stats.NewUsersThisMonth++
		}
		if strings.TrimSpace(c.FullName) != "" {
			stats.WithProfiles++
		}
	}
	return stats
}

// ComputePaymentStats sums completed revenue in minor units and converts once
func ComputePaymentStats(orders []*Order) PaymentStats {
	var revenueMinor int64
	stats := PaymentStats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case OrderStatusCompleted:
			stats.CompletedOrders++
			revenueMinor += o.AmountTotal
		case OrderStatusPending:
			stats.PendingOrders++
		}
	}

	stats.TotalRevenue = float64(revenueMinor) / 100
	if stats.CompletedOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.CompletedOrders)
	}
	stats.OtherOrders = stats.TotalOrders - stats.CompletedOrders - stats.PendingOrders
	return stats
}

// ComputeTicketStats counts tickets per status
func ComputeTicketStats(tickets []*SupportTicket) TicketStats {
	stats := TicketStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case TicketStatusOpen:
			stats.Open++
		case TicketStatusInProgress:
			stats.InProgress++
		case TicketStatusResolved:
			stats.Resolved++
		case TicketStatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// ComputeDashboardStats derives the home page counters
func ComputeDashboardStats(packages []*Package, bookings []*Booking) DashboardStats {
	stats := DashboardStats{
		TotalPackages: len(packages),
		TotalBookings: len(bookings),
	}
	for _, p := range packages {
		if p.Status == PackageStatusActive {
			stats.ActivePackages++
		}
	}
	for _, b := range bookings {
		if b.Status == BookingStatusPending {
			stats.PendingBookings++
		}
	}
	return stats
}
