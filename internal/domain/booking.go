package domain

import "time"

// BookingStatus enumerates lifecycle states for bookings.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// AvailabilitySlot is a bookable window published by a teacher.
type AvailabilitySlot struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacherId"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Booked    bool      `json:"booked"`
}

// Booking ties a student to a teacher's availability slot.
type Booking struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	TeacherID string        `json:"teacherId"`
	SlotID    string        `json:"slotId"`
	Status    BookingStatus `json:"status"`
	Price     float64       `json:"price"`
	CreatedAt time.Time     `json:"createdAt"`
}

// PaymentStatus enumerates payment states reported by the checkout flow.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Payment records one checkout outcome for a booking.
type Payment struct {
	ID        string        `json:"id"`
	BookingID string        `json:"bookingId"`
	StudentID string        `json:"studentId"`
	TeacherID string        `json:"teacherId"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CheckoutSession is the third-party checkout handle for a booking.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	BookingID string `json:"bookingId"`
	URL       string `json:"url"`
}

// DashboardStats aggregates a teacher's activity for the dashboard view.
type DashboardStats struct {
	TotalBookings     int     `json:"totalBookings"`
	CompletedBookings int     `json:"completedBookings"`
	UpcomingBookings  int     `json:"upcomingBookings"`
	CancelledBookings int     `json:"cancelledBookings"`
	TotalEarnings     float64 `json:"totalEarnings"`
	UniqueStudents    int     `json:"uniqueStudents"`
}
