package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allenlarson/pokemontcgtrader/internal/services"
)

// CatalogHandler triggers ingestion from the Pokemon TCG API.
type CatalogHandler struct {
	ingestionService *services.IngestionService
}

func NewCatalogHandler(ingestion *services.IngestionService) *CatalogHandler {
	return &CatalogHandler{ingestionService: ingestion}
}

// FetchCards loads one page of cards. The JSON body is optional.
func (h *CatalogHandler) FetchCards(c *gin.Context) {
	var params services.FetchCardsParams
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.ingestionService.FetchCardsPage(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) SweepSet(c *gin.Context) {
	result, err := h.ingestionService.FetchAllCardsFromSet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) RefreshSets(c *gin.Context) {
	result, err := h.ingestionService.RefreshSets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) RefreshRecentSets(c *gin.Context) {
	result, err := h.ingestionService.RefreshRecentSets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
