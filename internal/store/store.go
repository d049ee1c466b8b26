package store

import (
	"context"
	"errors"
	"time"

	"github.com/vaheed/coursenova/pkg/types"
)

// Store defines the persistence boundary for the course API.
type Store interface {
	Close(ctx context.Context) error
	Health(ctx context.Context) error

	// CreateCourse assigns c.ID and the timestamps.
	CreateCourse(ctx context.Context, c *types.Course) error
	GetCourse(ctx context.Context, id int64) (*types.Course, error)
	// ListCourses returns matching courses ordered by id.
	ListCourses(ctx context.Context, f types.CourseFilter) ([]*types.Course, error)
	UpdateCourse(ctx context.Context, c *types.Course) error
	DeleteCourse(ctx context.Context, id int64) error
	CourseExists(ctx context.Context, f types.CourseFilter) (bool, error)
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Helper to stamp time fields for idempotent creates
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
