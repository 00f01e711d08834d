package stub

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AvailabilityHandler serves slot browsing and publishing.
type AvailabilityHandler struct {
	store *Store
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(store *Store) *AvailabilityHandler {
	return &AvailabilityHandler{store: store}
}

// Open handles GET /availability/teacher/:id, the public browse surface.
// Only unbooked slots are returned.
func (h *AvailabilityHandler) Open(c *fiber.Ctx) error {
	return c.JSON(h.store.Slots(c.Params("id"), true))
}

// List handles GET /availability/:teacherId. Owner view, every slot.
func (h *AvailabilityHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.Slots(c.Params("teacherId"), false))
}

// Add handles POST /availability/:teacherId. Teachers publish their own
// slots only.
func (h *AvailabilityHandler) Add(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")
	if teacherID != CallerID(c) {
		return fiber.NewError(http.StatusForbidden, "cannot publish slots for another teacher")
	}

	var req struct {
		StartsAt time.Time `json:"startsAt"`
		EndsAt   time.Time `json:"endsAt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return fiber.NewError(http.StatusBadRequest, "slot must end after it starts")
	}

	slot, err := h.store.AddSlot(teacherID, req.StartsAt, req.EndsAt)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "teacher not found")
	}
	return c.Status(http.StatusCreated).JSON(slot)
}

// BookingsHandler serves the booking lifecycle.
type BookingsHandler struct {
	store *Store
}

// NewBookingsHandler constructs the handler.
func NewBookingsHandler(store *Store) *BookingsHandler {
	return &BookingsHandler{store: store}
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	var req struct {
		TeacherID string `json:"teacherId"`
		SlotID    string `json:"slotId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TeacherID == "" || req.SlotID == "" {
		return fiber.NewError(http.StatusBadRequest, "teacherId and slotId required")
	}

	booking, err := h.store.CreateBooking(CallerID(c), req.TeacherID, req.SlotID)
	if err != nil {
		if errors.Is(err, errSlotTaken) {
			return fiber.NewError(http.StatusConflict, "slot already booked")
		}
		return fiber.NewError(http.StatusNotFound, "slot not found")
	}
	return c.Status(http.StatusCreated).JSON(booking)
}

// ByStudent handles GET /bookings/student/:id.
func (h *BookingsHandler) ByStudent(c *fiber.Ctx) error {
	return c.JSON(h.store.BookingsByStudent(c.Params("id")))
}

// ByTeacher handles GET /bookings/teacher/:id.
func (h *BookingsHandler) ByTeacher(c *fiber.Ctx) error {
	return c.JSON(h.store.BookingsByTeacher(c.Params("id")))
}

// Cancel handles DELETE /bookings/:id.
func (h *BookingsHandler) Cancel(c *fiber.Ctx) error {
	if err := h.store.CancelBooking(c.Params("id")); err != nil {
		return fiber.NewError(http.StatusNotFound, "booking not found")
	}
	return c.SendStatus(http.StatusNoContent)
}

// CancelAllForTeacher handles DELETE /bookings/teacher/:id.
func (h *BookingsHandler) CancelAllForTeacher(c *fiber.Ctx) error {
	teacherID := c.Params("id")
	if teacherID != CallerID(c) {
		return fiber.NewError(http.StatusForbidden, "cannot cancel another teacher's bookings")
	}
	cancelled := h.store.CancelTeacherBookings(teacherID)
	return c.JSON(fiber.Map{"cancelled": cancelled})
}

// Complete handles PUT /bookings/:id/complete.
func (h *BookingsHandler) Complete(c *fiber.Ctx) error {
	booking, ok := h.store.Booking(c.Params("id"))
	if !ok {
		return fiber.NewError(http.StatusNotFound, "booking not found")
	}
	if booking.TeacherID != CallerID(c) {
		return fiber.NewError(http.StatusForbidden, "only the booked teacher can complete")
	}
	completed, err := h.store.CompleteBooking(booking.ID)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "booking not found")
	}
	return c.JSON(completed)
}
