package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/academic-record-service/internal/importer"
	"github.com/campustrack/academic-record-service/internal/services"
	"github.com/campustrack/academic-record-service/internal/utils"
)

type AttendanceHandler struct {
	BaseHandler
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Upload reconciles a bulk attendance batch sent as JSON rows.
func (h *AttendanceHandler) Upload(c *gin.Context) {
	h.LogRequest(c, "Uploading attendance batch")

	var rows []services.AttendanceRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.UploadBatch(c.Request.Context(), rows); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Attendance uploaded successfully", gin.H{
		"count": len(rows),
	})
}

// Import parses an uploaded .xlsx attendance sheet and reconciles it. The
// faculty email comes from the session, not the sheet.
func (h *AttendanceHandler) Import(c *gin.Context) {
	h.LogRequest(c, "Importing attendance spreadsheet")

	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing spreadsheet file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	rows, err := importer.ParseAttendanceSheet(file, email)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to parse spreadsheet",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.UploadBatch(c.Request.Context(), rows); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Attendance imported successfully", gin.H{
		"count": len(rows),
	})
}

// GetByDate returns roster-enriched attendance records for one date.
func (h *AttendanceHandler) GetByDate(c *gin.Context) {
	date := c.Query("date")
	h.LogRequest(c, "Fetching attendance by date", "date", date)

	records, err := h.service.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Attendance fetched successfully", gin.H{
		"records": records,
	})
}

// Update edits the status of a single attendance record.
func (h *AttendanceHandler) Update(c *gin.Context) {
	h.LogRequest(c, "Updating attendance record")

	var req services.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Attendance updated successfully", nil)
}

// Me returns the authenticated student's records with per-subject percentages.
func (h *AttendanceHandler) Me(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
		return
	}
	h.LogRequest(c, "Fetching student attendance", "email", email)

	resp, err := h.service.GetByStudentEmail(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Attendance fetched successfully", gin.H{
		"subjectAttendance": resp.SubjectAttendance,
		"attendanceRecords": resp.Records,
	})
}

// Export streams the (date, hour, subject) sheet as an .xlsx download.
func (h *AttendanceHandler) Export(c *gin.Context) {
	date := c.Param("date")
	hour := c.Param("hour")
	subject := c.Param("subject")
	h.LogRequest(c, "Exporting attendance sheet", "date", date, "hour", hour, "subject", subject)

	records, err := h.service.ExportRows(c.Request.Context(), date, hour, subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	workbook, err := importer.BuildAttendanceWorkbook(records)
	if err != nil {
		h.LogError(c, err, "Failed to build attendance workbook")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to build spreadsheet",
		})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("attendance_%s_%s_%s.xlsx", date, hour, subject)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.LogError(c, err, "Failed to write attendance workbook")
	}
}
