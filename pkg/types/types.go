package types

import "time"

// Course is a single course offered by the catalogue.
type Course struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseFilter narrows a course listing. Nil fields do not filter.
type CourseFilter struct {
	ID   *int64
	Name *string
}

// Matches reports whether c satisfies every set field of the filter.
func (f CourseFilter) Matches(c *Course) bool {
	if c == nil {
		return false
	}
	if f.ID != nil && c.ID != *f.ID {
		return false
	}
	if f.Name != nil && c.Name != *f.Name {
		return false
	}
	return true
}

// Event describes a change to a course, published to the telemetry stream.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	CourseID int64     `json:"courseId"`
	Name     string    `json:"name,omitempty"`
	TS       time.Time `json:"ts"`
}

const (
	EventCourseCreated = "course.created"
	EventCourseUpdated = "course.updated"
	EventCourseDeleted = "course.deleted"
)
