package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaheed/coursenova/pkg/types"
)

func TestClientRequestShape(t *testing.T) {
	var gotAuth, gotQuery, gotPath, gotMethod string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":1,"name":"Algebra","description":""}]`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":2,"name":"Biology","description":"cells"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok")
	ctx := context.Background()
	name := "Algebra"
	list, err := c.ListCourses(ctx, types.CourseFilter{Name: &name})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "name=Algebra", gotQuery)
	assert.Equal(t, "/courses/", gotPath)

	created, err := c.CreateCourse(ctx, "Biology", "cells")
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Biology", gotBody["name"])
	assert.Equal(t, "cells", gotBody["description"])
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"CRS-404","message":"course not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").GetCourse(context.Background(), 9)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "CRS-404", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "course not found")
}

func TestClientDoReturnsAnyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "").Do(context.Background(), http.MethodDelete, "/courses/1/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Error(t, resp.Decode(&struct{}{}))
}
