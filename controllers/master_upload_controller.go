package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"master-data-service/models"
	"master-data-service/services"
)

// MasterUploadController handles master workbook uploads.
type MasterUploadController struct {
	service   services.MasterImportService
	cache     *CacheManager
	validator *RequestValidator
}

func NewMasterUploadController(service services.MasterImportService, cache *CacheManager) *MasterUploadController {
	return &MasterUploadController{
		service:   service,
		cache:     cache,
		validator: NewRequestValidator(),
	}
}

// Upload receives a MASTER_<BRAND>_DDMMYY workbook and reconciles it.
func (mc *MasterUploadController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	// Cheap gates before the body is read.
	id, err := mc.validator.ValidateMasterFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		zap.L().Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		zap.L().Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), UploadContextTimeout)
	defer cancel()

	contentType := fileHeader.Header.Get("Content-Type")
	summary, serr := mc.service.ProcessMasterUpload(ctx, data, fileHeader.Filename, contentType)
	if serr != nil {
		zap.L().Error("Master upload failed",
			zap.String("brand", string(id.Brand)),
			zap.String("file", fileHeader.Filename),
			zap.Int("status", serr.StatusCode),
			zap.String("message", serr.Message),
		)
		c.JSON(serr.StatusCode, gin.H{"error": serr.Message})
		return
	}

	if summary.Status == models.StatusImported && (summary.Inserted > 0 || summary.Updated > 0) && mc.cache != nil {
		if err := mc.cache.Invalidate(ctx); err != nil {
			zap.L().Error("Failed to invalidate search cache after import", zap.Error(err))
		}
	}

	zap.L().Info("Master upload processed",
		zap.String("brand", summary.Brand),
		zap.String("file", summary.File),
		zap.String("status", summary.Status),
		zap.String("dateKey", summary.DateKey),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("unchanged", summary.Unchanged),
	)
	c.JSON(http.StatusOK, summary)
}
