package bulkupload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/realestate-backend/middleware"
)

// maxUploadBytes caps both JSON bodies and spreadsheets.
const maxUploadBytes = 32 << 20

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func optionsFrom(c *gin.Context) (Options, bool) {
	ac, ok := middleware.GetAccessContext(c)
	if !ok {
		return Options{}, false
	}
	autoCreate, _ := strconv.ParseBool(c.Query("autoCreate"))
	return Options{
		Actor: Actor{
			UserID:      ac.UserID,
			Role:        ac.RoleName,
			Hierarchy:   ac.Hierarchy,
			Permissions: ac.Permissions,
		},
		AutoCreate: autoCreate,
		IP:         middleware.GetIPFromContext(c),
	}, true
}

func respond(c *gin.Context, kind Kind, res *Result, err error) {
	status := http.StatusOK
	message := fmt.Sprintf("Imported %d of %d %s", res.Summary.Imported, res.Summary.Total, kind)

	var verr *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		message = verr.Error()
	case errors.Is(err, ErrInvalidBatch), errors.Is(err, ErrUnsupportedEntity):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		status = http.StatusInternalServerError
		message = "Bulk upload failed: " + err.Error()
	}

	errs := res.Errors
	if errs == nil {
		errs = []RecordError{}
	}
	c.JSON(status, gin.H{
		"success":       err == nil,
		"message":       message,
		"summary":       res.Summary,
		"errors":        errs,
		"skipped":       res.SkippedRecords,
		"imageWarnings": res.ImageWarnings,
		"warnings":      res.Warnings,
	})
}

// Upload godoc
// @Summary Bulk upload records
// @Description Validates and imports a JSON array of records (max 1000). The batch is rejected as a whole if any record is invalid; duplicates are skipped.
// @Tags BulkUpload
// @Accept json
// @Produce json
// @Param entity path string true "users, developers, governorates, cities, areas, properties, leads or launches"
// @Param autoCreate query bool false "Create missing parents for cities and areas"
// @Param body body []object true "records"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bulk-uploads/{entity} [post]
func (h *Handler) Upload(c *gin.Context) {
	kind, err := ParseKind(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	opts, ok := optionsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "access context missing"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "could not read request body"})
		return
	}

	res, err := h.service.ImportBatch(c.Request.Context(), kind, body, opts)
	respond(c, kind, res, err)
}

// UploadExcel godoc
// @Summary Bulk upload records from a spreadsheet
// @Description The first sheet's header row uses dot-notation field paths, as in the Excel template.
// @Tags BulkUpload
// @Accept multipart/form-data
// @Produce json
// @Param entity path string true "entity type"
// @Param autoCreate query bool false "Create missing parents for cities and areas"
// @Param file formData file true "xlsx file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bulk-uploads/{entity}/excel [post]
func (h *Handler) UploadExcel(c *gin.Context) {
	kind, err := ParseKind(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	opts, ok := optionsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "access context missing"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "file is required"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "file is too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "could not open file"})
		return
	}
	defer f.Close()

	records, err := ParseExcel(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	res, err := h.service.ImportRecords(c.Request.Context(), kind, records, opts)
	respond(c, kind, res, err)
}

// Template godoc
// @Summary Get a JSON template
// @Description Returns an array of example records ready to edit and upload.
// @Tags BulkUpload
// @Produce json
// @Param entity path string true "entity type"
// @Success 200 {array} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bulk-uploads/template/{entity} [get]
func (h *Handler) Template(c *gin.Context) {
	kind, err := ParseKind(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	examples, err := TemplateJSON(kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, examples)
}

// TemplateExcel godoc
// @Summary Download an Excel template
// @Tags BulkUpload
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity path string true "entity type"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /bulk-uploads/template/{entity}/excel [get]
func (h *Handler) TemplateExcel(c *gin.Context) {
	kind, err := ParseKind(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	data, err := TemplateExcel(kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to build template"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.xlsx", kind))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// TemplatePDF godoc
// @Summary Download the field guide as PDF
// @Tags BulkUpload
// @Produce application/pdf
// @Param entity path string true "entity type"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /bulk-uploads/template/{entity}/pdf [get]
func (h *Handler) TemplatePDF(c *gin.Context) {
	kind, err := ParseKind(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	data, err := TemplatePDF(kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to build field guide"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_fields.pdf", kind))
	c.Data(http.StatusOK, "application/pdf", data)
}
