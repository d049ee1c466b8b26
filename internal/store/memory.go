package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vaheed/coursenova/pkg/types"
)

type Memory struct {
	mu      sync.RWMutex
	courses map[int64]types.Course
	nextID  int64
}

func NewMemory() *Memory {
	return &Memory{courses: map[int64]types.Course{}, nextID: 1}
}

func (m *Memory) Close(ctx context.Context) error  { return nil }
func (m *Memory) Health(ctx context.Context) error { return nil }

func (m *Memory) CreateCourse(ctx context.Context, c *types.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = stamp(c.CreatedAt)
	c.UpdatedAt = c.CreatedAt
	m.courses[c.ID] = *c
	return nil
}

func (m *Memory) GetCourse(ctx context.Context, id int64) (*types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) ListCourses(ctx context.Context, f types.CourseFilter) ([]*types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.courses))
	for id := range m.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*types.Course, 0, len(ids))
	for _, id := range ids {
		c := m.courses[id]
		if f.Matches(&c) {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *Memory) UpdateCourse(ctx context.Context, c *types.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.courses[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	m.courses[c.ID] = *c
	return nil
}

func (m *Memory) DeleteCourse(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *Memory) CourseExists(ctx context.Context, f types.CourseFilter) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.courses {
		c := c
		if f.Matches(&c) {
			return true, nil
		}
	}
	return false, nil
}
