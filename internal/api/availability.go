package api

import (
	"context"
	"time"

	"github.com/spec-kit/tutorhub-client/internal/domain"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

// TeacherAvailability returns a teacher's open slots via the public
// browse endpoint.
func (c *Client) TeacherAvailability(ctx context.Context, teacherID string) ([]domain.AvailabilitySlot, error) {
	var slots []domain.AvailabilitySlot
	if err := c.get(ctx, pathf("/availability/teacher/%s", teacherID), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ListAvailability returns every slot a teacher manages, booked or not.
func (c *Client) ListAvailability(ctx context.Context, teacherID string) ([]domain.AvailabilitySlot, error) {
	var slots []domain.AvailabilitySlot
	if err := c.get(ctx, pathf("/availability/%s", teacherID), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// AddSlotRequest is the payload for publishing a new availability window.
type AddSlotRequest struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// AddAvailability publishes a new slot for the teacher.
func (c *Client) AddAvailability(ctx context.Context, teacherID string, req AddSlotRequest) (*domain.AvailabilitySlot, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, util.NewValidationError("slot must end after it starts")
	}
	var slot domain.AvailabilitySlot
	if err := c.post(ctx, pathf("/availability/%s", teacherID), req, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}
