package stub

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// ProfilesHandler serves the student/teacher profile and directory endpoints.
type ProfilesHandler struct {
	store *Store
}

// NewProfilesHandler constructs the handler.
func NewProfilesHandler(store *Store) *ProfilesHandler {
	return &ProfilesHandler{store: store}
}

// MyStudent handles GET /students/me.
func (h *ProfilesHandler) MyStudent(c *fiber.Ctx) error {
	profile, ok := h.store.StudentProfile(CallerID(c))
	if !ok {
		return fiber.NewError(http.StatusNotFound, "student profile not found")
	}
	return c.JSON(profile)
}

// UpdateMyStudent handles PUT /students/me.
func (h *ProfilesHandler) UpdateMyStudent(c *fiber.Ctx) error {
	var req domain.StudentProfile
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	profile, err := h.store.UpdateStudentProfile(CallerID(c), req)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "student profile not found")
	}
	return c.JSON(profile)
}

// MyTeacher handles GET /teachers/me.
func (h *ProfilesHandler) MyTeacher(c *fiber.Ctx) error {
	profile, ok := h.store.TeacherProfile(CallerID(c))
	if !ok {
		return fiber.NewError(http.StatusNotFound, "teacher profile not found")
	}
	return c.JSON(profile)
}

// UpdateMyTeacher handles PUT /teachers/me.
func (h *ProfilesHandler) UpdateMyTeacher(c *fiber.Ctx) error {
	var req domain.TeacherProfile
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	profile, err := h.store.UpdateTeacherProfile(CallerID(c), req)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "teacher profile not found")
	}
	return c.JSON(profile)
}

// List handles GET /teachers.
func (h *ProfilesHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.ListTeachers())
}

// Get handles GET /teachers/:id.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	profile, ok := h.store.TeacherProfile(c.Params("id"))
	if !ok {
		return fiber.NewError(http.StatusNotFound, "teacher not found")
	}
	return c.JSON(profile)
}
