package api

import (
	"context"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// MyStudentProfile fetches the authenticated student's profile.
func (c *Client) MyStudentProfile(ctx context.Context) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	if err := c.get(ctx, "/students/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateMyStudentProfile replaces the authenticated student's profile.
func (c *Client) UpdateMyStudentProfile(ctx context.Context, profile domain.StudentProfile) (*domain.StudentProfile, error) {
	var updated domain.StudentProfile
	if err := c.put(ctx, "/students/me", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// MyTeacherProfile fetches the authenticated teacher's profile.
func (c *Client) MyTeacherProfile(ctx context.Context) (*domain.TeacherProfile, error) {
	var profile domain.TeacherProfile
	if err := c.get(ctx, "/teachers/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateMyTeacherProfile replaces the authenticated teacher's profile.
func (c *Client) UpdateMyTeacherProfile(ctx context.Context, profile domain.TeacherProfile) (*domain.TeacherProfile, error) {
	var updated domain.TeacherProfile
	if err := c.put(ctx, "/teachers/me", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListTeachers returns the public teacher directory.
func (c *Client) ListTeachers(ctx context.Context) ([]domain.TeacherProfile, error) {
	var teachers []domain.TeacherProfile
	if err := c.get(ctx, "/teachers", &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

// GetTeacher returns one teacher's public profile.
func (c *Client) GetTeacher(ctx context.Context, id string) (*domain.TeacherProfile, error) {
	var teacher domain.TeacherProfile
	if err := c.get(ctx, pathf("/teachers/%s", id), &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}
