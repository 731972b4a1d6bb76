package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternal-365/educonnect/internal/common"
	"github.com/eternal-365/educonnect/internal/httpapi/middleware"
	"github.com/eternal-365/educonnect/internal/users"
)

type registerCourseReq struct {
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
}

func (h *Handler) RegisterVocationalCourse(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req registerCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CourseID == "" || req.CourseName == "" {
		common.Fail(c, http.StatusBadRequest, "course id and name are required")
		return
	}

	err := h.Users.RegisterVocationalCourse(c.Request.Context(), claims.UserID, claims.UserType, req.CourseID, req.CourseName)
	if err != nil {
		if errors.Is(err, users.ErrStudentsOnly) {
			common.Fail(c, http.StatusForbidden, "only students can register for vocational courses")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "failed to register for course")
		return
	}

	common.OK(c, gin.H{"message": "Successfully registered for " + req.CourseName})
}

func (h *Handler) ListVocationalCourses(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	if claims.UserType != users.TypeStudent {
		common.Fail(c, http.StatusForbidden, "only students can access vocational courses")
		return
	}

	courses, err := h.Users.ListVocationalCourses(c.Request.Context(), claims.UserID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "failed to fetch courses")
		return
	}

	common.OK(c, gin.H{"courses": courses})
}

type updateProgressReq struct {
	CourseID string `json:"courseId"`
	Progress *int   `json:"progress"`
}

func (h *Handler) UpdateCourseProgress(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateProgressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CourseID == "" || req.Progress == nil {
		common.Fail(c, http.StatusBadRequest, "course id and progress are required")
		return
	}

	err := h.Users.UpdateCourseProgress(c.Request.Context(), claims.UserID, req.CourseID, *req.Progress)
	if err != nil {
		if errors.Is(err, users.ErrCourseNotFound) {
			common.Fail(c, http.StatusNotFound, "course not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "failed to update progress")
		return
	}

	common.OK(c, gin.H{"message": "Progress updated successfully"})
}
