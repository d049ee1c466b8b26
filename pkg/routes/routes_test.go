package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	got, err := Reverse(CourseList)
	require.NoError(t, err)
	assert.Equal(t, "/courses/", got)

	got, err = Reverse(CourseDetail, int64(42))
	require.NoError(t, err)
	assert.Equal(t, "/courses/42/", got)

	got, err = Reverse(CourseDetail, "a b")
	require.NoError(t, err)
	assert.Equal(t, "/courses/a%20b/", got)
}

func TestReverseErrors(t *testing.T) {
	_, err := Reverse("course-missing")
	assert.Error(t, err)
	_, err = Reverse(CourseDetail)
	assert.Error(t, err)
	_, err = Reverse(CourseList, 1)
	assert.Error(t, err)
	assert.Panics(t, func() { MustReverse(CourseDetail) })
}

func TestChiPattern(t *testing.T) {
	assert.Equal(t, "/courses", ChiPattern(CourseList))
	assert.Equal(t, "/courses/{courseID}", ChiPattern(CourseDetail))
	assert.Panics(t, func() { ChiPattern("nope") })
}
