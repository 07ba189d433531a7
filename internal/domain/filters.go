package domain

import "strings"

// StatusAll disables status filtering on list queries
const StatusAll = "all"

func statusMatches(filter, status string) bool {
	return filter == "" || filter == StatusAll || filter == status
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// FilterBookings keeps bookings with the given status
func FilterBookings(bookings []*Booking, status string) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if statusMatches(status, b.Status) {
			out = append(out, b)
		}
	}
	return out
}

// FilterCustomers keeps customers with the given status whose name or id
// contains query, case-insensitively
func FilterCustomers(customers []*Customer, status, query string) []*Customer {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*Customer, 0, len(customers))
	for _, c := range customers {
		if !statusMatches(status, c.Status) {
			continue
		}
		if query != "" && !containsFold(c.FullName, query) && !containsFold(c.ID, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterTickets keeps tickets with the given status whose subject or message
// contains query, case-insensitively
func FilterTickets(tickets []*SupportTicket, status, query string) []*SupportTicket {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*SupportTicket, 0, len(tickets))
	for _, t := range tickets {
		if !statusMatches(status, t.Status) {
			continue
		}
		if query != "" && !containsFold(t.Subject, query) && !containsFold(t.Message, query) {
			continue
		}
		out = append(out, t)
	}
	return out
}
