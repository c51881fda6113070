package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Replenishment handles POST /reports/replenishment. An empty body
// runs the report with the configured defaults.
func (h *ReportHandler) Replenishment(c *gin.Context) {
	var params domain.ReplenishmentParams
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.service.Replenishment(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Redistribution handles POST /reports/redistribution.
func (h *ReportHandler) Redistribution(c *gin.Context) {
	var params domain.RedistributionParams
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.service.Redistribution(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Movement handles GET /reports/movement. The summary block can be
// omitted with ?summary=false.
func (h *ReportHandler) Movement(c *gin.Context) {
	windowDays, ok := queryDays(c)
	if !ok {
		return
	}
	report, err := h.service.Movement(c.Request.Context(), windowDays)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if c.DefaultQuery("summary", "true") == "false" {
		report.Summary = nil
	}
	c.JSON(http.StatusOK, report)
}

// Shortages handles GET /reports/shortages.
func (h *ReportHandler) Shortages(c *gin.Context) {
	windowDays, ok := queryDays(c)
	if !ok {
		return
	}
	report, err := h.service.Shortages(c.Request.Context(), windowDays)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Product handles GET /products/:code.
func (h *ReportHandler) Product(c *gin.Context) {
	inquiry, err := h.service.ProductInquiry(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inquiry)
}

// ExportReplenishment handles POST /reports/replenishment/export.
func (h *ReportHandler) ExportReplenishment(c *gin.Context) {
	var params domain.ReplenishmentParams
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	key, err := h.service.ExportReplenishment(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"object_key": key})
}

func queryDays(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("days", "0")
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		respondError(c, http.StatusBadRequest, "invalid days: "+raw)
		return 0, false
	}
	return days, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConfigurationMissing):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
