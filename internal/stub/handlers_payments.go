package stub

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PaymentsHandler fakes the checkout provider and serves payment history.
type PaymentsHandler struct {
	store *Store
}

// NewPaymentsHandler constructs the handler.
func NewPaymentsHandler(store *Store) *PaymentsHandler {
	return &PaymentsHandler{store: store}
}

// CreateCheckoutSession handles POST /stripe/create-checkout-session/:bookingId.
func (h *PaymentsHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	bookingID := c.Params("bookingId")
	if _, err := h.store.OpenCheckout(bookingID); err != nil {
		return fiber.NewError(http.StatusNotFound, "booking not found")
	}
	sessionID := uuid.NewString()
	return c.JSON(fiber.Map{
		"sessionId": sessionID,
		"bookingId": bookingID,
		"url":       fmt.Sprintf("https://checkout.example.com/pay/%s", sessionID),
	})
}

// Success handles GET /stripe/success/:bookingId.
func (h *PaymentsHandler) Success(c *fiber.Ctx) error {
	payment, err := h.store.SettleCheckout(c.Params("bookingId"), true)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "no open checkout for booking")
	}
	return c.JSON(payment)
}

// Cancel handles GET /stripe/cancel/:bookingId. The booking stays pending so
// the student can retry checkout.
func (h *PaymentsHandler) Cancel(c *fiber.Ctx) error {
	if _, err := h.store.SettleCheckout(c.Params("bookingId"), false); err != nil {
		return fiber.NewError(http.StatusNotFound, "no open checkout for booking")
	}
	return c.SendStatus(http.StatusNoContent)
}

// ByTeacher handles GET /stripe/payments/teacher/:id.
func (h *PaymentsHandler) ByTeacher(c *fiber.Ctx) error {
	return c.JSON(h.store.PaymentsByTeacher(c.Params("id")))
}

// ByStudent handles GET /payments/student/:id.
func (h *PaymentsHandler) ByStudent(c *fiber.Ctx) error {
	return c.JSON(h.store.PaymentsByStudent(c.Params("id")))
}

// TeacherStats handles GET /teacher-dashboard/:id/stats.
func (h *PaymentsHandler) TeacherStats(c *fiber.Ctx) error {
	return c.JSON(h.store.TeacherStats(c.Params("id")))
}
