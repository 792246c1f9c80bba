package scan

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"menulens/internal/apperr"
	"menulens/internal/llm"
	"menulens/internal/media"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// Submit a menu photo
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	language := c.PostForm("target_language")
	if language == "" {
		language = llm.LanguageZhTW
	}

	f := media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	lc := NewLifecycle()
	m, record, err := h.service.Scan(c.Request.Context(), userID, f, language, lc)
	if err != nil {
		status := statusFor(err)
		body := gin.H{
			"error":     apperr.UserMessageOf(err),
			"code":      apperr.CodeOf(err),
			"retryable": apperr.IsRetryable(err),
			"state":     lc.State(),
		}
		if record != nil {
			body["scan_id"] = record.ID
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"scan_id":  record.ID,
		"state":    lc.State(),
		"progress": lc.Progress(),
		"menu":     m,
	})
}

// --------------------------------------------------
// Poll scan status
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	userID := c.GetString("userID")

	record, err := h.service.GetScan(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, ErrScanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// --------------------------------------------------
// Retry a failed scan
// --------------------------------------------------
func (h *Handler) Retry(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.service.RetryScan(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, ErrScanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(StatusUploaded)})
}

func statusFor(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidMediaType, apperr.CodeFileTooLarge,
		apperr.CodeEmptyImage, apperr.CodeInvalidLanguage:
		return http.StatusBadRequest
	case apperr.CodeNoMenuItems, apperr.CodeInvalidMenuItem:
		return http.StatusUnprocessableEntity
	case apperr.CodeUpstreamUnavailable, apperr.CodeUpstreamTimeout,
		apperr.CodeMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
