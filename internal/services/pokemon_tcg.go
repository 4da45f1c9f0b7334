package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/allenlarson/pokemontcgtrader/internal/config"
	"github.com/allenlarson/pokemontcgtrader/internal/metrics"
	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

const defaultPokemonTCGBaseURL = "https://api.pokemontcg.io/v2"

// ErrMissingAPIKey is returned before any request is made when no API key is configured.
var ErrMissingAPIKey = errors.New("pokemon tcg api key not configured")

// CatalogError describes a failed Pokemon TCG API call. Status is zero for
// transport and decode failures.
type CatalogError struct {
	Op     string
	Status int
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("pokemon tcg %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("pokemon tcg %s: %v", e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// CardQuery is one page request against /cards. Zero fields are omitted.
type CardQuery struct {
	Query    string
	Page     int
	PageSize int
	OrderBy  string
}

// CardQueryResult carries the converted cards and the pagination metadata
// exactly as the API reported it (zero when absent).
type CardQueryResult struct {
	Cards      []models.Card
	TotalCount int
	Page       int
	PageSize   int
}

// SetQuery is a request against /sets.
type SetQuery struct {
	Query    string
	OrderBy  string
	PageSize int
}

// PokemonTCGService is the client for pokemontcg.io. Requests are rate
// limited and set metadata lookups are cached.
type PokemonTCGService struct {
	client   *http.Client
	apiKey   string
	baseURL  string
	limiter  *rate.Limiter
	setCache *lru.Cache[string, models.Set]
}

func NewPokemonTCGService(cfg config.CatalogConfig) (*PokemonTCGService, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultPokemonTCGBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	cacheSize := cfg.SetCacheSize
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, models.Set](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create set cache: %w", err)
	}

	return &PokemonTCGService{
		client:   &http.Client{Timeout: timeout},
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		limiter:  rate.NewLimiter(limit, 1),
		setCache: cache,
	}, nil
}

type pokemonListResponse[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"count"`
}

type pokemonCard struct {
	TCGPlayer *pokemonTCGPrice `json:"tcgplayer"`
	Set       pokemonSetRef    `json:"set"`
	Images    pokemonImages    `json:"images"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Number    string           `json:"number"`
	Rarity    string           `json:"rarity"`
	Types     []string         `json:"types"`
}

type pokemonSetRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPrice struct {
	Prices    map[string]pokemonPriceSet `json:"prices"`
	URL       string                     `json:"url"`
	UpdatedAt string                     `json:"updatedAt"`
}

type pokemonPriceSet struct {
	Low    float64 `json:"low"`
	Mid    float64 `json:"mid"`
	High   float64 `json:"high"`
	Market float64 `json:"market"`
}

type pokemonSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	Total       int    `json:"total"`
	ReleaseDate string `json:"releaseDate"`
	Images      struct {
		Symbol string `json:"symbol"`
		Logo   string `json:"logo"`
	} `json:"images"`
}

// SearchCards fetches a single page of cards.
func (s *PokemonTCGService) SearchCards(ctx context.Context, q CardQuery) (*CardQueryResult, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.OrderBy != "" {
		params.Set("orderBy", q.OrderBy)
	}

	var resp pokemonListResponse[pokemonCard]
	if err := s.get(ctx, "cards", "/cards", params, &resp); err != nil {
		return nil, err
	}

	cards := make([]models.Card, len(resp.Data))
	for i, pc := range resp.Data {
		cards[i] = convertCard(pc)
	}

	return &CardQueryResult{
		Cards:      cards,
		TotalCount: resp.TotalCount,
		Page:       resp.Page,
		PageSize:   resp.PageSize,
	}, nil
}

// GetSet returns the set's metadata, from the cache when possible.
func (s *PokemonTCGService) GetSet(ctx context.Context, setID string) (*models.Set, error) {
	if set, ok := s.setCache.Get(setID); ok {
		metrics.SetCacheHits.Inc()
		return &set, nil
	}

	var resp struct {
		Data pokemonSet `json:"data"`
	}
	if err := s.get(ctx, "set", "/sets/"+url.PathEscape(setID), nil, &resp); err != nil {
		return nil, err
	}

	set := convertSet(resp.Data)
	s.setCache.Add(setID, set)
	return &set, nil
}

// ListSets fetches one page of sets.
func (s *PokemonTCGService) ListSets(ctx context.Context, q SetQuery) ([]models.Set, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.OrderBy != "" {
		params.Set("orderBy", q.OrderBy)
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	var resp pokemonListResponse[pokemonSet]
	if err := s.get(ctx, "sets", "/sets", params, &resp); err != nil {
		return nil, err
	}

	sets := make([]models.Set, len(resp.Data))
	for i, ps := range resp.Data {
		sets[i] = convertSet(ps)
		s.setCache.Add(sets[i].SetID, sets[i])
	}
	return sets, nil
}

func (s *PokemonTCGService) get(ctx context.Context, endpoint, path string, params url.Values, out interface{}) error {
	if s.apiKey == "" {
		return ErrMissingAPIKey
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return &CatalogError{Op: endpoint, Err: err}
	}

	reqURL := s.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &CatalogError{Op: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return &CatalogError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	metrics.CatalogRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &CatalogError{
			Op:     endpoint,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("pokemon tcg API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &CatalogError{Op: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// convertCard maps an API card onto the cache model. The image prefers the
// large rendition; the price is the first non-zero market price of
// holofoil, normal and reverse holofoil.
func convertCard(pc pokemonCard) models.Card {
	card := models.Card{
		CardID:  pc.ID,
		Name:    pc.Name,
		SetID:   pc.Set.ID,
		SetName: pc.Set.Name,
	}
	if pc.Rarity != "" {
		rarity := pc.Rarity
		card.Rarity = &rarity
	}
	if len(pc.Types) > 0 {
		card.Types = append([]string(nil), pc.Types...)
	}

	switch {
	case pc.Images.Large != "":
		img := pc.Images.Large
		card.ImageURL = &img
	case pc.Images.Small != "":
		img := pc.Images.Small
		card.ImageURL = &img
	}

	if pc.TCGPlayer != nil {
		for _, variant := range []string{"holofoil", "normal", "reverseHolofoil"} {
			if p, ok := pc.TCGPlayer.Prices[variant]; ok && p.Market != 0 {
				price := p.Market
				card.MarketPrice = &price
				break
			}
		}
	}
	return card
}

func convertSet(ps pokemonSet) models.Set {
	set := models.Set{
		SetID:       ps.ID,
		Name:        ps.Name,
		Series:      ps.Series,
		ReleaseDate: ps.ReleaseDate,
		TotalCards:  ps.Total,
	}
	if ps.Images.Logo != "" {
		logo := ps.Images.Logo
		set.LogoURL = &logo
	}
	return set
}
