package controllers

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"master-data-service/models"
)

// Validation constants
const (
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
)

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ValidateMasterFile checks upload size and the master filename pattern
// before any bytes are read.
func (rv *RequestValidator) ValidateMasterFile(file *multipart.FileHeader) (*models.FileIdentity, error) {
	if file.Size > MaxUploadSize {
		return nil, fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return models.ParseMasterFilename(file.Filename)
}

// ParseSearchRequest binds and validates the search payload. An empty or
// malformed body falls back to defaults rather than erroring.
func (rv *RequestValidator) ParseSearchRequest(c *gin.Context) (*models.SearchRequest, error) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	req.Brand = strings.ToUpper(strings.TrimSpace(req.Brand))
	if err := rv.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	req.Normalize()
	return &req, nil
}
