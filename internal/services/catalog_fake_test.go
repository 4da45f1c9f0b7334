package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/allenlarson/pokemontcgtrader/internal/config"
	"github.com/allenlarson/pokemontcgtrader/internal/database"
	"github.com/allenlarson/pokemontcgtrader/internal/store"
)

const testAPIKey = "test-key"

// fakeCatalog serves the parts of the pokemontcg.io API the client uses.
type fakeCatalog struct {
	mu sync.Mutex

	cards []pokemonCard
	sets  []pokemonSet

	// failPage makes /cards answer 500 for that page number; 0 disables it.
	failPage int
	// reportedPageSize overrides the pageSize echoed back; 0 echoes the request.
	reportedPageSize int

	cardRequests []url.Values
	setRequests  []url.Values
	setLookups   int
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("X-Api-Key") != testAPIKey {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/cards":
		f.cardRequests = append(f.cardRequests, r.URL.Query())
		f.serveCards(w, r.URL.Query())
	case r.URL.Path == "/sets":
		f.setRequests = append(f.setRequests, r.URL.Query())
		writeTestJSON(w, pokemonListResponse[pokemonSet]{
			Data:       f.sets,
			Page:       1,
			PageSize:   250,
			Count:      len(f.sets),
			TotalCount: len(f.sets),
		})
	case strings.HasPrefix(r.URL.Path, "/sets/"):
		f.setLookups++
		id := strings.TrimPrefix(r.URL.Path, "/sets/")
		for _, s := range f.sets {
			if s.ID == id {
				writeTestJSON(w, map[string]interface{}{"data": s})
				return
			}
		}
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCatalog) serveCards(w http.ResponseWriter, q url.Values) {
	page := atoiDefault(q.Get("page"), 1)
	size := atoiDefault(q.Get("pageSize"), 250)
	if f.failPage != 0 && page == f.failPage {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	matched := make([]pokemonCard, 0, len(f.cards))
	for _, c := range f.cards {
		if matchesTestQuery(c, q.Get("q")) {
			matched = append(matched, c)
		}
	}

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	reported := size
	if f.reportedPageSize != 0 {
		reported = f.reportedPageSize
	}
	writeTestJSON(w, pokemonListResponse[pokemonCard]{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   reported,
		Count:      end - start,
		TotalCount: len(matched),
	})
}

func (f *fakeCatalog) cardRequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cardRequests)
}

func (f *fakeCatalog) cardRequest(i int) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cardRequests[i]
}

func (f *fakeCatalog) setRequest(i int) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setRequests[i]
}

func (f *fakeCatalog) setRequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.setRequests)
}

func (f *fakeCatalog) setLookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setLookups
}

func matchesTestQuery(c pokemonCard, q string) bool {
	if q == "" {
		return true
	}
	for _, clause := range strings.Split(q, " AND ") {
		switch {
		case strings.HasPrefix(clause, "set.id:"):
			if c.Set.ID != strings.TrimPrefix(clause, "set.id:") {
				return false
			}
		case strings.HasPrefix(clause, `name:"*`):
			term := strings.TrimSuffix(strings.TrimPrefix(clause, `name:"*`), `*"`)
			if !strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) {
				return false
			}
		}
	}
	return true
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeTestJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func makeTestCards(setID, setName string, n int) []pokemonCard {
	cards := make([]pokemonCard, n)
	for i := range cards {
		cards[i] = pokemonCard{
			ID:     fmt.Sprintf("%s-%d", setID, i+1),
			Name:   fmt.Sprintf("Card %d", i+1),
			Number: strconv.Itoa(i + 1),
			Rarity: "Common",
			Types:  []string{"Colorless"},
			Set:    pokemonSetRef{ID: setID, Name: setName},
		}
	}
	return cards
}

func makeTestSet(id, name, releaseDate string, total int) pokemonSet {
	s := pokemonSet{ID: id, Name: name, Series: "Test", ReleaseDate: releaseDate, Total: total}
	s.Images.Logo = "https://images.example/" + id + "/logo.png"
	return s
}

type testEnv struct {
	fake      *fakeCatalog
	client    *PokemonTCGService
	cards     *store.CardStore
	sets      *store.SetStore
	ingestion *IngestionService
	search    *SearchService
}

func newTestEnv(t *testing.T, fake *fakeCatalog) *testEnv {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewPokemonTCGService(config.CatalogConfig{
		APIKey:       testAPIKey,
		BaseURL:      srv.URL,
		Timeout:      5 * time.Second,
		RateLimit:    1000,
		SetCacheSize: 16,
	})
	if err != nil {
		t.Fatalf("NewPokemonTCGService: %v", err)
	}

	db, err := database.Open(filepath.Join(t.TempDir(), "services.db"), "silent")
	if err != nil {
		t.Fatalf("database.Open: %v", err)
	}
	cards := store.NewCardStore(db)
	sets := store.NewSetStore(db)

	return &testEnv{
		fake:      fake,
		client:    client,
		cards:     cards,
		sets:      sets,
		ingestion: NewIngestionService(client, cards, sets),
		search:    NewSearchService(cards, sets),
	}
}
