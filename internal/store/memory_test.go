package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaheed/coursenova/pkg/types"
)

func TestMemoryCourseCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	c := &types.Course{Name: "Algebra", Description: "Linear"}
	require.NoError(t, m.CreateCourse(ctx, c))
	assert.Equal(t, int64(1), c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := m.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", got.Name)

	got.Name = "Geometry"
	got.Description = "Euclid"
	require.NoError(t, m.UpdateCourse(ctx, got))
	again, err := m.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Geometry", again.Name)
	assert.Equal(t, "Euclid", again.Description)
	assert.Equal(t, c.CreatedAt, again.CreatedAt)

	require.NoError(t, m.DeleteCourse(ctx, c.ID))
	_, err = m.GetCourse(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteCourse(ctx, c.ID), ErrNotFound)
	assert.ErrorIs(t, m.UpdateCourse(ctx, &types.Course{ID: 99, Name: "x"}), ErrNotFound)
}

func TestMemoryListFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, m.CreateCourse(ctx, &types.Course{Name: n}))
	}

	all, err := m.ListCourses(ctx, types.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, c := range all {
		assert.Equal(t, int64(i+1), c.ID, "ordered by id")
	}

	id := int64(2)
	byID, err := m.ListCourses(ctx, types.CourseFilter{ID: &id})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "b", byID[0].Name)

	name := "c"
	byName, err := m.ListCourses(ctx, types.CourseFilter{Name: &name})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, int64(3), byName[0].ID)

	both, err := m.ListCourses(ctx, types.CourseFilter{ID: &id, Name: &name})
	require.NoError(t, err)
	assert.NotNil(t, both)
	assert.Empty(t, both)

	ok, err := m.CourseExists(ctx, types.CourseFilter{Name: &name})
	require.NoError(t, err)
	assert.True(t, ok)
	missing := "zzz"
	ok, err = m.CourseExists(ctx, types.CourseFilter{Name: &missing})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	first := &types.Course{Name: "one"}
	require.NoError(t, m.CreateCourse(ctx, first))
	require.NoError(t, m.DeleteCourse(ctx, first.ID))
	second := &types.Course{Name: "two"}
	require.NoError(t, m.CreateCourse(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEnvOrMemoryFallsBackToMemory(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	st, closeFn, err := EnvOrMemory()
	require.NoError(t, err)
	defer closeFn(context.Background())
	_, ok := st.(*Memory)
	assert.True(t, ok, "expected memory store, got %T", st)
}
