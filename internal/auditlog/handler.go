package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs handles GET /auditlogs - retrieves audit logs with filtering and pagination
// @Summary Get audit logs
// @Description Retrieve audit logs with optional filters and pagination (admin only)
// @Tags AuditLog
// @Produce json
// @Param user_id query string false "Filter by user ID"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "Filter by status"
// @Param from_date query string false "Filter from date (YYYY-MM-DD)"
// @Param to_date query string false "Filter to date (YYYY-MM-DD)"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Number of records per page (default: 20)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auditlogs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		UserID: c.Query("user_id"),
		Action: c.Query("action"),
		Status: c.Query("status"),
	}

	if fromDateStr := c.Query("from_date"); fromDateStr != "" {
		fromDate, err := time.Parse("2006-01-02", fromDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date format. Use YYYY-MM-DD"})
			return
		}
		filter.FromDate = &fromDate
	}

	if toDateStr := c.Query("to_date"); toDateStr != "" {
		toDate, err := time.Parse("2006-01-02", toDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date format. Use YYYY-MM-DD"})
			return
		}
		// Set to end of day
		endOfDay := toDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		filter.ToDate = &endOfDay
	}

	filter.Page = 1
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	filter.Limit = 20
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAuditLogByID handles GET /auditlogs/:id
// @Summary Get audit log by ID
// @Tags AuditLog
// @Produce json
// @Param id path string true "Audit Log ID"
// @Success 200 {object} AuditLogResponse
// @Failure 404 {object} map[string]string
// @Router /auditlogs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	log, err := h.service.GetAuditLogByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not found"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// GetAuditLogStats handles GET /auditlogs/stats - success/failure counts for the last 7 days
// @Summary Get audit log statistics
// @Tags AuditLog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /auditlogs/stats [get]
func (h *Handler) GetAuditLogStats(c *gin.Context) {
	now := time.Now()
	lastWeek := now.AddDate(0, 0, -7)

	result, err := h.service.GetAuditLogs(c.Request.Context(), AuditLogFilter{
		FromDate: &lastWeek,
		ToDate:   &now,
		Limit:    1000,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log stats"})
		return
	}

	successCount := 0
	failureCount := 0
	actionBreakdown := make(map[string]int)
	for _, log := range result.Data {
		if log.Status == StatusSuccess {
			successCount++
		} else {
			failureCount++
		}
		actionBreakdown[log.Action]++
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"total_last_7_days": result.Total,
		"success_count":     successCount,
		"failure_count":     failureCount,
		"action_breakdown":  actionBreakdown,
	}})
}
