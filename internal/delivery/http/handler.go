package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/labelforge/backend/internal/domain"
	"github.com/labelforge/backend/internal/infrastructure/dataset"
	"github.com/labelforge/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	labels *usecase.LabelService
	logger zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(labels *usecase.LabelService, logger zerolog.Logger) *Handler {
	return &Handler{labels: labels, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "healthy",
		"service": "labelforge-backend",
		"version": "1.0.0",
		"regions": domain.Regions,
	})
}

// GenerateLabel validates the posted product record for the route's region
// and returns the rendered label HTML. Invalid records get a 400 carrying
// every validation message; no partial HTML is ever returned.
func (h *Handler) GenerateLabel(c *gin.Context) {
	region, ok := domain.ParseRegion(c.Param("region"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown region: " + c.Param("region"),
		})
		return
	}

	record, ok := h.bindRecord(c)
	if !ok {
		return
	}

	html, err := h.labels.Generate(region, record)
	if err != nil {
		if verr, isValidation := domain.AsValidationError(err); isValidation {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  verr.Errors,
				"region":  region,
			})
			return
		}
		h.logger.Error().Err(err).Str("region", string(region)).Msg("label generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"html":         html,
		"product_name": stringOr(record, "product_name", "Unknown"),
		"region":       region,
		"category":     stringOr(record, "category", "Unknown"),
	})
}

// ValidateRecord runs validation only, without generating a label.
func (h *Handler) ValidateRecord(c *gin.Context) {
	region, ok := domain.ParseRegion(c.Param("region"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown region: " + c.Param("region"),
		})
		return
	}

	record, ok := h.bindRecord(c)
	if !ok {
		return
	}

	result, err := h.labels.Validate(region, record)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valid":   result.Valid,
		"errors":  result.Errors,
		"region":  region,
	})
}

// ListSamples returns the names of the embedded sample records for a region.
func (h *Handler) ListSamples(c *gin.Context) {
	region, ok := domain.ParseRegion(c.Param("region"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown region: " + c.Param("region"),
		})
		return
	}

	names, err := dataset.Names(region)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"region":  region,
		"samples": names,
	})
}

// GetSample returns one embedded sample record.
func (h *Handler) GetSample(c *gin.Context) {
	region, ok := domain.ParseRegion(c.Param("region"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown region: " + c.Param("region"),
		})
		return
	}

	record, err := dataset.Load(region, c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// bindRecord decodes the request body into a ProductRecord, writing the
// error response itself when the body is missing or malformed.
func (h *Handler) bindRecord(c *gin.Context) (domain.ProductRecord, bool) {
	var record domain.ProductRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "request body must be valid JSON",
		})
		return nil, false
	}
	if len(record) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Empty request body",
		})
		return nil, false
	}
	return record, true
}

func stringOr(record domain.ProductRecord, key, fallback string) string {
	if s, ok := record.StringField(key); ok && s != "" {
		return s
	}
	return fallback
}
