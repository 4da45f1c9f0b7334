package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/allenlarson/pokemontcgtrader/internal/metrics"
	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

const (
	defaultCardsPage     = 1
	defaultCardsPageSize = 20
	maxPageSize          = 250
	recentSetsWindow     = 2 // years
)

// CatalogClient is the subset of the Pokemon TCG API the ingestion flows use.
type CatalogClient interface {
	SearchCards(ctx context.Context, q CardQuery) (*CardQueryResult, error)
	GetSet(ctx context.Context, setID string) (*models.Set, error)
	ListSets(ctx context.Context, q SetQuery) ([]models.Set, error)
}

type CardInserter interface {
	InsertIfAbsent(ctx context.Context, card *models.Card) (bool, error)
}

type SetInserter interface {
	InsertIfAbsent(ctx context.Context, set *models.Set) (bool, error)
}

// FetchCardsParams selects one page of cards. Zero values take the defaults
// (page 1, 20 per page, no name or set restriction).
type FetchCardsParams struct {
	SearchTerm string `json:"search_term" form:"q"`
	SetID      string `json:"set_id" form:"set"`
	Page       int    `json:"page" form:"page"`
	PageSize   int    `json:"page_size" form:"page_size"`
}

// IngestionService pulls cards and sets from the catalog API into the local
// cache. Every write is insert-if-absent, so flows can be re-run at will.
type IngestionService struct {
	catalog CatalogClient
	cards   CardInserter
	sets    SetInserter
	now     func() time.Time
}

func NewIngestionService(catalog CatalogClient, cards CardInserter, sets SetInserter) *IngestionService {
	return &IngestionService{
		catalog: catalog,
		cards:   cards,
		sets:    sets,
		now:     time.Now,
	}
}

// FetchCardsPage fetches one page ordered by name and caches unseen cards.
// The returned page holds every fetched card, new or not.
func (s *IngestionService) FetchCardsPage(ctx context.Context, params FetchCardsParams) (*models.CardPage, error) {
	page := params.Page
	if page <= 0 {
		page = defaultCardsPage
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultCardsPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var clauses []string
	if term := strings.TrimSpace(params.SearchTerm); term != "" {
		clauses = append(clauses, fmt.Sprintf(`name:"*%s*"`, term))
	}
	if setID := strings.TrimSpace(params.SetID); setID != "" {
		clauses = append(clauses, "set.id:"+setID)
	}

	result, err := s.catalog.SearchCards(ctx, CardQuery{
		Query:    strings.Join(clauses, " AND "),
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "name",
	})
	if err != nil {
		return nil, s.fail("page", "Failed to fetch cards from Pokemon TCG API", err)
	}

	newCards, err := s.cacheCards(ctx, result.Cards)
	if err != nil {
		return nil, s.fail("page", "Failed to fetch cards from Pokemon TCG API", err)
	}

	out := &models.CardPage{
		Cards:      result.Cards,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		NewCards:   newCards,
	}
	if out.Page == 0 {
		out.Page = page
	}
	if out.PageSize == 0 {
		out.PageSize = pageSize
	}

	log.WithFields(log.Fields{
		"query":     strings.Join(clauses, " AND "),
		"page":      out.Page,
		"fetched":   len(result.Cards),
		"new_cards": newCards,
	}).Info("Ingestion: fetched card page")

	return out, nil
}

// FetchAllCardsFromSet walks every page of a set, 250 cards at a time in
// collector-number order. The page count is fixed from the first response.
// A failure keeps the cards already cached and aborts the sweep.
func (s *IngestionService) FetchAllCardsFromSet(ctx context.Context, setID string) (*models.SetSweepResult, error) {
	setID = strings.TrimSpace(setID)
	if setID == "" {
		return nil, ErrMissingSetID
	}
	sweepFailed := func(err error) error {
		return s.fail("sweep", fmt.Sprintf("Failed to fetch all cards from set %s: %v", setID, err), err)
	}

	set, err := s.catalog.GetSet(ctx, setID)
	if err != nil {
		return nil, sweepFailed(err)
	}

	result := &models.SetSweepResult{
		SetID:         setID,
		ExpectedCards: set.TotalCards,
	}

	currentPage := 1
	totalPages := 1
	for {
		page, err := s.catalog.SearchCards(ctx, CardQuery{
			Query:    "set.id:" + setID,
			Page:     currentPage,
			PageSize: maxPageSize,
			OrderBy:  "number",
		})
		if err != nil {
			log.WithFields(log.Fields{
				"set_id":    setID,
				"page":      currentPage,
				"processed": result.TotalCardsProcessed,
			}).Warn("Ingestion: sweep aborted")
			return nil, sweepFailed(err)
		}

		if currentPage == 1 {
			size := page.PageSize
			if size <= 0 {
				size = maxPageSize
			}
			totalPages = (page.TotalCount + size - 1) / size
		}

		newCards, err := s.cacheCards(ctx, page.Cards)
		if err != nil {
			return nil, sweepFailed(err)
		}
		result.TotalCardsProcessed += len(page.Cards)
		result.NewCards += newCards
		result.PagesProcessed++

		currentPage++
		if currentPage > totalPages {
			break
		}
	}

	if result.ExpectedCards > 0 {
		result.Message = fmt.Sprintf("Successfully loaded %d cards from set %s (expected %d)",
			result.TotalCardsProcessed, setID, result.ExpectedCards)
	} else {
		result.Message = fmt.Sprintf("Successfully loaded %d cards from set %s", result.TotalCardsProcessed, setID)
	}

	log.WithFields(log.Fields{
		"set_id":    setID,
		"pages":     result.PagesProcessed,
		"processed": result.TotalCardsProcessed,
		"new_cards": result.NewCards,
		"expected":  result.ExpectedCards,
	}).Info("Ingestion: set sweep complete")

	return result, nil
}

// RefreshSets caches every set the API knows, newest first.
func (s *IngestionService) RefreshSets(ctx context.Context) (*models.SetRefreshResult, error) {
	sets, err := s.catalog.ListSets(ctx, SetQuery{OrderBy: "-releaseDate", PageSize: maxPageSize})
	if err != nil {
		return nil, s.fail("sets", "Failed to fetch sets from Pokemon TCG API", err)
	}

	newSets, err := s.cacheSets(ctx, sets)
	if err != nil {
		return nil, s.fail("sets", "Failed to fetch sets from Pokemon TCG API", err)
	}
	return &models.SetRefreshResult{
		TotalSets: len(sets),
		NewSets:   newSets,
		Message:   fmt.Sprintf("Loaded %d sets (%d new)", len(sets), newSets),
	}, nil
}

// RefreshRecentSets caches sets released in the last two years.
func (s *IngestionService) RefreshRecentSets(ctx context.Context) (*models.SetRefreshResult, error) {
	since := s.now().UTC().AddDate(-recentSetsWindow, 0, 0).Format("2006-01-02")
	sets, err := s.catalog.ListSets(ctx, SetQuery{
		Query:    fmt.Sprintf("releaseDate:[%s TO *]", since),
		OrderBy:  "-releaseDate",
		PageSize: maxPageSize,
	})
	if err != nil {
		return nil, s.fail("recent_sets", "Failed to fetch recent sets from Pokemon TCG API", err)
	}

	newSets, err := s.cacheSets(ctx, sets)
	if err != nil {
		return nil, s.fail("recent_sets", "Failed to fetch recent sets from Pokemon TCG API", err)
	}
	return &models.SetRefreshResult{
		TotalSets: len(sets),
		NewSets:   newSets,
		Message:   fmt.Sprintf("Loaded %d recent sets (%d new)", len(sets), newSets),
	}, nil
}

// cacheCards stamps every card with the sync time, including the caller's
// copies, and inserts the ones not cached yet.
func (s *IngestionService) cacheCards(ctx context.Context, cards []models.Card) (int, error) {
	now := s.now().UTC()
	newCards := 0
	for i := range cards {
		cards[i].LastUpdated = now
		card := cards[i]
		inserted, err := s.cards.InsertIfAbsent(ctx, &card)
		if err != nil {
			return newCards, fmt.Errorf("cache card %s: %w", card.CardID, err)
		}
		if inserted {
			newCards++
			metrics.CardsIngestedTotal.WithLabelValues("new").Inc()
		} else {
			metrics.CardsIngestedTotal.WithLabelValues("skipped").Inc()
		}
	}
	metrics.CardCacheSize.Add(float64(newCards))
	return newCards, nil
}

func (s *IngestionService) cacheSets(ctx context.Context, sets []models.Set) (int, error) {
	newSets := 0
	for i := range sets {
		set := sets[i]
		inserted, err := s.sets.InsertIfAbsent(ctx, &set)
		if err != nil {
			return newSets, fmt.Errorf("cache set %s: %w", set.SetID, err)
		}
		if inserted {
			newSets++
			metrics.SetsIngestedTotal.WithLabelValues("new").Inc()
		} else {
			metrics.SetsIngestedTotal.WithLabelValues("skipped").Inc()
		}
	}
	metrics.SetCacheSize.Add(float64(newSets))
	return newSets, nil
}

// fail records the failure and wraps err for the caller. A missing API key
// replaces the flow's message.
func (s *IngestionService) fail(flow, message string, err error) error {
	metrics.IngestionFailuresTotal.WithLabelValues(flow).Inc()
	if errors.Is(err, ErrMissingAPIKey) {
		message = "Pokemon TCG API key not configured"
	}
	log.WithError(err).WithField("flow", flow).Error("Ingestion: " + message)
	return &IngestionError{Message: message, Err: err}
}
