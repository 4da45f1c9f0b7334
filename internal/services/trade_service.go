package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
	"github.com/allenlarson/pokemontcgtrader/internal/store"
)

// TradeService manages a user's tradeable cards and want list. Card ids are
// not checked against the cache; entries may point at cards never ingested.
type TradeService struct {
	trades *store.TradeStore
}

func NewTradeService(trades *store.TradeStore) *TradeService {
	return &TradeService{trades: trades}
}

// AddTradeable lists a card for trade. Adding a card the user already lists
// adds to its quantity and replaces condition and notes.
func (s *TradeService) AddTradeable(ctx context.Context, userID, cardID, condition string, quantity int, notes *string) (*models.TradeableEntry, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, ErrMissingCardID
	}
	cond := models.NormalizeCondition(condition)
	if !cond.IsValid() {
		return nil, ErrInvalidCondition
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	entry, err := s.trades.UpsertTradeable(ctx, &models.TradeableEntry{
		UserID:    userID,
		CardID:    cardID,
		Condition: cond,
		Quantity:  quantity,
		Notes:     notes,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": userID, "card_id": cardID, "quantity": entry.Quantity}).Debug("Trades: tradeable updated")
	return entry, nil
}

// RemoveTradeable is a no-op when the card is not listed.
func (s *TradeService) RemoveTradeable(ctx context.Context, userID, cardID string) error {
	_, err := s.trades.DeleteTradeable(ctx, userID, cardID)
	return err
}

func (s *TradeService) ListTradeable(ctx context.Context, userID string) ([]models.TradeableEntry, error) {
	return s.trades.ListTradeable(ctx, userID)
}

// AddWant adds a card to the want list, or replaces priority, max condition
// and notes if it is already there.
func (s *TradeService) AddWant(ctx context.Context, userID, cardID, priority, maxCondition string, notes *string) (*models.WantEntry, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, ErrMissingCardID
	}
	prio := models.Priority(strings.ToLower(strings.TrimSpace(priority)))
	if !prio.IsValid() {
		return nil, ErrInvalidPriority
	}
	cond := models.NormalizeCondition(maxCondition)
	if !cond.IsValid() {
		return nil, ErrInvalidCondition
	}

	return s.trades.UpsertWant(ctx, &models.WantEntry{
		UserID:       userID,
		CardID:       cardID,
		Priority:     prio,
		MaxCondition: cond,
		Notes:        notes,
	})
}

func (s *TradeService) RemoveWant(ctx context.Context, userID, cardID string) error {
	_, err := s.trades.DeleteWant(ctx, userID, cardID)
	return err
}

func (s *TradeService) ListWants(ctx context.Context, userID string) ([]models.WantEntry, error) {
	return s.trades.ListWants(ctx, userID)
}
