package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/vaheed/coursenova/internal/lib/httperr"
	"github.com/vaheed/coursenova/internal/logging"
	"github.com/vaheed/coursenova/internal/metrics"
	"github.com/vaheed/coursenova/internal/store"
	"github.com/vaheed/coursenova/pkg/routes"
	"github.com/vaheed/coursenova/pkg/types"
	"go.uber.org/zap"
)

const maxNameLength = 255

// CourseRequest is the body of POST, PUT and PATCH. The read-only fields are
// accepted so a fetched course can be sent back unchanged, and ignored.
type CourseRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ID          *int64     `json:"id,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ListCoursesParams are the exact-match filters of the list endpoint.
type ListCoursesParams struct {
	ID   *int64  `form:"id"`
	Name *string `form:"name"`
}

func bindListParams(q url.Values) (ListCoursesParams, error) {
	var params ListCoursesParams
	// empty values do not filter
	clean := url.Values{}
	for _, k := range []string{"id", "name"} {
		if v := q.Get(k); v != "" {
			clean.Set(k, v)
		}
	}
	if err := runtime.BindQueryParameter("form", true, false, "id", clean, &params.ID); err != nil {
		return params, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "name", clean, &params.Name); err != nil {
		return params, err
	}
	return params, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", errors.New("name must be at most 255 characters")
	}
	return name, nil
}

func courseLocation(id int64) string {
	return routes.MustReverse(routes.CourseDetail, id)
}

func (s *Server) courseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := types.ParseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func (s *Server) publish(ctx context.Context, kind string, c *types.Course) {
	metrics.CourseOpsTotal.WithLabelValues(kind).Inc()
	s.events.Publish(ctx, types.Event{
		ID:       uuid.NewString(),
		Type:     kind,
		CourseID: c.ID,
		Name:     c.Name,
		TS:       time.Now().UTC(),
	})
}

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	courses, err := s.store.ListCourses(r.Context(), types.CourseFilter{ID: params.ID, Name: params.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, httperr.Internal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) createCourse(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, RoleAdmin, RoleEditor) {
		return
	}
	var req CourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	var raw string
	if req.Name != nil {
		raw = *req.Name
	}
	name, err := validateName(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	c := &types.Course{Name: name}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if err := s.store.CreateCourse(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, httperr.Conflict, "course already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, httperr.Internal, err.Error())
		return
	}
	logging.L.Info("course_created", zap.Int64("course_id", c.ID), zap.String("name", c.Name))
	s.publish(r.Context(), types.EventCourseCreated, c)
	w.Header().Set("Location", courseLocation(c.ID))
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.courseID(w, r)
	if !ok {
		return
	}
	c, err := s.store.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, httperr.NotFound, "course not found")
			return
		}
		writeError(w, http.StatusInternalServerError, httperr.Internal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// updateCourse replaces every mutable field; an omitted description is cleared.
func (s *Server) updateCourse(w http.ResponseWriter, r *http.Request) {
	s.modifyCourse(w, r, func(c *types.Course, req CourseRequest) error {
		var raw string
		if req.Name != nil {
			raw = *req.Name
		}
		name, err := validateName(raw)
		if err != nil {
			return err
		}
		c.Name = name
		c.Description = ""
		if req.Description != nil {
			c.Description = *req.Description
		}
		return nil
	})
}

// patchCourse changes only the fields present in the body.
func (s *Server) patchCourse(w http.ResponseWriter, r *http.Request) {
	s.modifyCourse(w, r, func(c *types.Course, req CourseRequest) error {
		if req.Name != nil {
			name, err := validateName(*req.Name)
			if err != nil {
				return err
			}
			c.Name = name
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		return nil
	})
}

func (s *Server) modifyCourse(w http.ResponseWriter, r *http.Request, apply func(*types.Course, CourseRequest) error) {
	if !s.requireRole(w, r, RoleAdmin, RoleEditor) {
		return
	}
	id, ok := s.courseID(w, r)
	if !ok {
		return
	}
	c, err := s.store.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, httperr.NotFound, "course not found")
			return
		}
		writeError(w, http.StatusInternalServerError, httperr.Internal, err.Error())
		return
	}
	var req CourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	if err := apply(c, req); err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	if err := s.store.UpdateCourse(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, httperr.NotFound, "course not found")
			return
		}
		writeError(w, http.StatusInternalServerError, httperr.Internal, err.Error())
		return
	}
	s.publish(r.Context(), types.EventCourseUpdated, c)
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCourse(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, RoleAdmin, RoleEditor) {
		return
	}
	id, ok := s.courseID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteCourse(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, httperr.NotFound, "course not found")
			return
		}
		writeError(w, http.StatusInternalServerError, httperr.Internal, err.Error())
		return
	}
	logging.L.Info("course_deleted", zap.Int64("course_id", id))
	s.publish(r.Context(), types.EventCourseDeleted, &types.Course{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
