package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jagimahalo/restock-backend/internal/service"
)

type ConfigHandler struct {
	service *service.ConfigService
}

func NewConfigHandler(service *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

// Stores handles GET /config/stores.
func (h *ConfigHandler) Stores(c *gin.Context) {
	stores, err := h.service.Stores(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// Policy handles GET /config/policy.
func (h *ConfigHandler) Policy(c *gin.Context) {
	overview, err := h.service.Policy(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// StockMinimums handles GET /config/stock-minimums.
func (h *ConfigHandler) StockMinimums(c *gin.Context) {
	minimums, err := h.service.StockMinimums(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minimums": minimums})
}

// FixedReferences handles GET /config/fixed-references.
func (h *ConfigHandler) FixedReferences(c *gin.Context) {
	codes, err := h.service.FixedReferences(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

// ExcludedCodes handles GET /config/excluded-codes.
func (h *ConfigHandler) ExcludedCodes(c *gin.Context) {
	codes, err := h.service.ExcludedCodes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

func respondError(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
