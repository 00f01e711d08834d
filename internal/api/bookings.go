package api

import (
	"context"

	"github.com/spec-kit/tutorhub-client/internal/domain"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

// CreateBookingRequest reserves a teacher's slot for a student.
type CreateBookingRequest struct {
	TeacherID string `json:"teacherId"`
	SlotID    string `json:"slotId"`
}

// CreateBooking reserves the slot and returns the pending booking.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.TeacherID == "" || req.SlotID == "" {
		return nil, util.NewValidationError("teacherId and slotId required")
	}
	var booking domain.Booking
	if err := c.post(ctx, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// StudentBookings lists a student's bookings.
func (c *Client) StudentBookings(ctx context.Context, studentID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, pathf("/bookings/student/%s", studentID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// TeacherBookings lists a teacher's bookings.
func (c *Client) TeacherBookings(ctx context.Context, teacherID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, pathf("/bookings/teacher/%s", teacherID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CancelBooking cancels one booking and releases its slot.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	return c.delete(ctx, pathf("/bookings/%s", bookingID))
}

// CancelTeacherBookings cancels every open booking a teacher holds.
func (c *Client) CancelTeacherBookings(ctx context.Context, teacherID string) error {
	return c.delete(ctx, pathf("/bookings/teacher/%s", teacherID))
}

// CompleteBooking marks a paid booking as delivered.
func (c *Client) CompleteBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.put(ctx, pathf("/bookings/%s/complete", bookingID), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
