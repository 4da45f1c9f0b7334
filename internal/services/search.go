package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/allenlarson/pokemontcgtrader/internal/metrics"
	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

type CardReader interface {
	GetByCardID(ctx context.Context, cardID string) (*models.Card, error)
	ListBySet(ctx context.Context, setID string) ([]models.Card, error)
	ListAll(ctx context.Context) ([]models.Card, error)
	DistinctNames(ctx context.Context) ([]string, error)
}

type SetLister interface {
	ListAll(ctx context.Context) ([]models.Set, error)
}

// SearchService answers catalog queries from the local cache only.
type SearchService struct {
	cards CardReader
	sets  SetLister
}

func NewSearchService(cards CardReader, sets SetLister) *SearchService {
	return &SearchService{cards: cards, sets: sets}
}

// Search scans the set's partition when a set is given, otherwise the whole
// cache, and keeps the cards that pass every supplied filter.
func (s *SearchService) Search(ctx context.Context, filter models.CardFilter) (*models.CardSearchResult, error) {
	start := time.Now()

	var (
		candidates []models.Card
		err        error
	)
	if filter.SetID != "" {
		candidates, err = s.cards.ListBySet(ctx, filter.SetID)
	} else {
		candidates, err = s.cards.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}

	cards := FilterCards(candidates, filter)

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(cards)))

	return &models.CardSearchResult{Cards: cards, TotalCount: len(cards)}, nil
}

// FilterCards returns the cards matching filter, preserving order. The name
// check is a case-insensitive substring match, rarity must match exactly and
// at least one type tag must be shared. Empty filters always pass.
func FilterCards(cards []models.Card, filter models.CardFilter) []models.Card {
	term := strings.ToLower(filter.SearchTerm)
	out := make([]models.Card, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		if filter.SetID != "" && card.SetID != filter.SetID {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(card.Name), term) {
			continue
		}
		if filter.Rarity != "" && (card.Rarity == nil || *card.Rarity != filter.Rarity) {
			continue
		}
		if len(filter.Types) > 0 && !card.HasAnyType(filter.Types) {
			continue
		}
		out = append(out, *card)
	}
	return out
}

// GetCard returns nil, nil for cards that are not cached.
func (s *SearchService) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	return s.cards.GetByCardID(ctx, cardID)
}

type cardNames []string

func (n cardNames) String(i int) string { return n[i] }
func (n cardNames) Len() int            { return len(n) }

// Suggest returns up to limit cached card names fuzzy matching term, best first.
func (s *SearchService) Suggest(ctx context.Context, term string, limit int) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	names, err := s.cards.DistinctNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest names: %w", err)
	}

	matches := fuzzy.FindFrom(term, cardNames(names))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out, nil
}

// ListSets returns cached sets, newest release first.
func (s *SearchService) ListSets(ctx context.Context) ([]models.Set, error) {
	sets, err := s.sets.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}
