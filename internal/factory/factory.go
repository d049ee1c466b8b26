// Package factory creates course rows directly in a store, bypassing HTTP.
// Fields a caller does not set are filled with generated values.
package factory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vaheed/coursenova/internal/store"
	"github.com/vaheed/coursenova/pkg/types"
)

type Factory struct {
	st store.Store
}

func New(st store.Store) *Factory { return &Factory{st: st} }

// Option overrides a generated field.
type Option func(*types.Course)

func WithName(name string) Option {
	return func(c *types.Course) { c.Name = name }
}

func WithDescription(d string) Option {
	return func(c *types.Course) { c.Description = d }
}

func (f *Factory) build(opts []Option) *types.Course {
	suffix := uuid.NewString()[:8]
	c := &types.Course{
		Name:        "course-" + suffix,
		Description: "generated course " + suffix,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Course persists one course.
func (f *Factory) Course(ctx context.Context, opts ...Option) (*types.Course, error) {
	c := f.build(opts)
	if err := f.st.CreateCourse(ctx, c); err != nil {
		return nil, fmt.Errorf("factory: create course: %w", err)
	}
	return c, nil
}

// Courses persists n courses, each with its own generated values.
func (f *Factory) Courses(ctx context.Context, n int, opts ...Option) ([]*types.Course, error) {
	out := make([]*types.Course, 0, n)
	for i := 0; i < n; i++ {
		c, err := f.Course(ctx, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
