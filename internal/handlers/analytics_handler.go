package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/academic-record-service/internal/services"
	"github.com/campustrack/academic-record-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	service services.AnalyticsService
}

func NewAnalyticsHandler(service services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SubjectAnalytics returns the IA and attendance distributions for one subject.
func (h *AnalyticsHandler) SubjectAnalytics(c *gin.Context) {
	subject := c.Query("subject")
	h.LogRequest(c, "Computing subject analytics", "subject", subject)

	resp, err := h.service.SubjectAnalytics(c.Request.Context(), subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Analytics computed successfully", gin.H{
		"iaDistribution":         resp.IADistribution,
		"attendanceDistribution": resp.AttendanceDistribution,
	})
}

// Performance returns the overall threshold counts across all subjects.
func (h *AnalyticsHandler) Performance(c *gin.Context) {
	h.LogRequest(c, "Computing performance summary")

	resp, err := h.service.PerformanceSummary(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Performance summary computed successfully", gin.H{
		"above85Attendance": resp.Above85Attendance,
		"above25Marks":      resp.Above25Marks,
	})
}

// StudentRoster returns per-student performance rows, optionally for one subject.
func (h *AnalyticsHandler) StudentRoster(c *gin.Context) {
	var subject *string
	if v := c.Query("subject"); v != "" {
		subject = &v
	}
	h.LogRequest(c, "Fetching student roster")

	rows, err := h.service.StudentRoster(c.Request.Context(), subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Students fetched successfully", gin.H{
		"students": rows,
	})
}
