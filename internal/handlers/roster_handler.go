package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/academic-record-service/internal/services"
	"github.com/campustrack/academic-record-service/internal/utils"
)

type RosterHandler struct {
	BaseHandler
	service services.RosterService
}

func NewRosterHandler(service services.RosterService, logger utils.Logger) *RosterHandler {
	return &RosterHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetUserByEmail returns one user looked up by email.
func (h *RosterHandler) GetUserByEmail(c *gin.Context) {
	email := c.Param("email")
	h.LogRequest(c, "Fetching user", "email", email)

	user, err := h.service.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "User fetched successfully", gin.H{
		"user": user,
	})
}

// ListFaculty returns all faculty members.
func (h *RosterHandler) ListFaculty(c *gin.Context) {
	h.LogRequest(c, "Listing faculty")

	faculty, err := h.service.ListFaculty(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Faculty fetched successfully", gin.H{
		"faculty": faculty,
	})
}

// AssignSubjects sets a faculty member's subjects and class.
func (h *RosterHandler) AssignSubjects(c *gin.Context) {
	h.LogRequest(c, "Assigning subjects to faculty")

	var req services.AssignSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	faculty, err := h.service.AssignSubjects(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Subjects assigned successfully", gin.H{
		"faculty": faculty,
	})
}

// RemoveFaculty deletes a faculty member and all records they created.
func (h *RosterHandler) RemoveFaculty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid faculty id",
			Details: err.Error(),
		})
		return
	}
	h.LogRequest(c, "Removing faculty", "faculty_id", id)

	if err := h.service.RemoveFaculty(c.Request.Context(), uint(id)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Faculty removed successfully", nil)
}
