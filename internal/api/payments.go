package api

import (
	"context"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// CreateCheckoutSession opens a third-party checkout for a pending booking.
// The caller sends the user to the returned URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, bookingID string) (*domain.CheckoutSession, error) {
	var cs domain.CheckoutSession
	if err := c.post(ctx, pathf("/stripe/create-checkout-session/%s", bookingID), nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// CheckoutSuccess is the payment return hook: it settles the booking.
func (c *Client) CheckoutSuccess(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := c.get(ctx, pathf("/stripe/success/%s", bookingID), &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CheckoutCancel is the abandoned-checkout return hook.
func (c *Client) CheckoutCancel(ctx context.Context, bookingID string) error {
	return c.get(ctx, pathf("/stripe/cancel/%s", bookingID), nil)
}

// TeacherStripePayments lists checkout payments received by a teacher.
func (c *Client) TeacherStripePayments(ctx context.Context, teacherID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := c.get(ctx, pathf("/stripe/payments/teacher/%s", teacherID), &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// StudentPayments lists payments a student has made.
func (c *Client) StudentPayments(ctx context.Context, studentID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := c.get(ctx, pathf("/payments/student/%s", studentID), &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// TeacherDashboardStats returns the aggregates behind the teacher dashboard.
func (c *Client) TeacherDashboardStats(ctx context.Context, teacherID string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, pathf("/teacher-dashboard/%s/stats", teacherID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
