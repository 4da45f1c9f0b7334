package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
	"github.com/allenlarson/pokemontcgtrader/internal/services"
)

// CardHandler serves catalog reads. Nothing here calls the Pokemon TCG API.
type CardHandler struct {
	searchService *services.SearchService
}

func NewCardHandler(search *services.SearchService) *CardHandler {
	return &CardHandler{searchService: search}
}

func (h *CardHandler) SearchCards(c *gin.Context) {
	filter := models.CardFilter{
		SearchTerm: strings.TrimSpace(c.Query("q")),
		SetID:      strings.TrimSpace(c.Query("set")),
		Rarity:     strings.TrimSpace(c.Query("rarity")),
		Types:      splitList(c.Query("types")),
	}

	result, err := h.searchService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CardHandler) SuggestNames(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	names, err := h.searchService.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": names})
}

func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.searchService.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) ListSets(c *gin.Context) {
	sets, err := h.searchService.ListSets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

// splitList parses a comma separated query value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
