package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allenlarson/pokemontcgtrader/internal/auth"
	"github.com/allenlarson/pokemontcgtrader/internal/models"
	"github.com/allenlarson/pokemontcgtrader/internal/services"
)

// TradeHandler manages the caller's tradeable cards and want list.
type TradeHandler struct {
	tradeService *services.TradeService
}

func NewTradeHandler(trades *services.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: trades}
}

func (h *TradeHandler) ListTradeable(c *gin.Context) {
	entries, err := h.tradeService.ListTradeable(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *TradeHandler) AddTradeable(c *gin.Context) {
	var req models.AddTradeableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	entry, err := h.tradeService.AddTradeable(c.Request.Context(), auth.UserID(c), req.CardID, string(req.Condition), req.Quantity, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *TradeHandler) RemoveTradeable(c *gin.Context) {
	if err := h.tradeService.RemoveTradeable(c.Request.Context(), auth.UserID(c), c.Param("cardId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *TradeHandler) ListWants(c *gin.Context) {
	entries, err := h.tradeService.ListWants(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *TradeHandler) AddWant(c *gin.Context) {
	var req models.AddWantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.tradeService.AddWant(c.Request.Context(), auth.UserID(c), req.CardID, string(req.Priority), string(req.MaxCondition), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *TradeHandler) RemoveWant(c *gin.Context) {
	if err := h.tradeService.RemoveWant(c.Request.Context(), auth.UserID(c), c.Param("cardId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ListOptions returns the condition and priority values with their display styles.
func (h *TradeHandler) ListOptions(c *gin.Context) {
	type option struct {
		Value string `json:"value"`
		models.DisplayStyle
	}
	conditions := make([]option, 0, len(models.AllConditions()))
	for _, cond := range models.AllConditions() {
		conditions = append(conditions, option{Value: string(cond), DisplayStyle: cond.Style()})
	}
	priorities := make([]option, 0, len(models.AllPriorities()))
	for _, p := range models.AllPriorities() {
		priorities = append(priorities, option{Value: string(p), DisplayStyle: p.Style()})
	}
	c.JSON(http.StatusOK, gin.H{"conditions": conditions, "priorities": priorities})
}
