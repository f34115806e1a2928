package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/academic-record-service/internal/importer"
	"github.com/campustrack/academic-record-service/internal/services"
	"github.com/campustrack/academic-record-service/internal/utils"
)

type MarksHandler struct {
	BaseHandler
	service services.MarksService
}

func NewMarksHandler(service services.MarksService, logger utils.Logger) *MarksHandler {
	return &MarksHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Upload reconciles a bulk IA-marks batch sent as JSON rows.
func (h *MarksHandler) Upload(c *gin.Context) {
	h.LogRequest(c, "Uploading marks batch")

	var rows []services.MarkRow
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

	h.respondSuccess(c, http.StatusOK, "Marks uploaded successfully", gin.H{
		"count": len(rows),
	})
}

// Import parses an uploaded .xlsx marks sheet and reconciles it.
func (h *MarksHandler) Import(c *gin.Context) {
	h.LogRequest(c, "Importing marks spreadsheet")

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

	rows, err := importer.ParseMarksSheet(file, email)
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

	h.respondSuccess(c, http.StatusOK, "Marks imported successfully", gin.H{
		"count": len(rows),
	})
}

// List returns roster-enriched mark records, optionally filtered by usn.
func (h *MarksHandler) List(c *gin.Context) {
	var usn *string
	if v := c.Query("usn"); v != "" {
		usn = &v
	}
	h.LogRequest(c, "Fetching marks")

	records, err := h.service.List(c.Request.Context(), usn)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Marks fetched successfully", gin.H{
		"records": records,
	})
}

// Update edits IA1/IA2 of one record. The service rejects updates from anyone
// but the faculty that recorded the marks.
func (h *MarksHandler) Update(c *gin.Context) {
	h.LogRequest(c, "Updating mark record")

	var req services.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	// The requester identity comes from the session, never the body.
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
		return
	}
	req.FacultyEmail = email

	if err := h.service.Update(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Marks updated successfully", nil)
}

// Me returns the authenticated student's own mark records.
func (h *MarksHandler) Me(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
		return
	}
	h.LogRequest(c, "Fetching student marks", "email", email)

	records, err := h.service.GetByStudentEmail(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondSuccess(c, http.StatusOK, "Marks fetched successfully", gin.H{
		"records": records,
	})
}
