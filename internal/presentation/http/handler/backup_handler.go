package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// maxImportSize bounds the request body accepted on import
const maxImportSize = 32 << 20

// BackupHandler handles export and import of all data
type BackupHandler struct {
	backupService *service.BackupService
	maxSize       int64
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService, maxSize: maxImportSize}
}

// Export handles downloading every collection as one JSON file
func (h *BackupHandler) Export(c *gin.Context) {
	document, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("stockpilot-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", document)
}

// Import handles merging a backup file. The file may be sent as the raw
// body or as the multipart field "file". Bodies over the size limit are
// rejected before anything is parsed.
func (h *BackupHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize)

	var reader io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				h.tooLarge(c)
				return
			}
			response.BadRequest(c, "Missing import file")
			return
		}
		if fileHeader.Size > h.maxSize {
			h.tooLarge(c)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "Failed to open uploaded file")
			return
		}
		defer file.Close()
		reader = file
	}

	document, err := io.ReadAll(reader)
	if err != nil {
		if isTooLarge(err) {
			h.tooLarge(c)
			return
		}
		response.BadRequest(c, "Failed to read import file")
		return
	}

	result, err := h.backupService.Import(c.Request.Context(), document)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backup imported successfully", result)
}

func (h *BackupHandler) tooLarge(c *gin.Context) {
	response.ErrorWithCode(c, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("Import file exceeds the limit of %d bytes", h.maxSize))
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
