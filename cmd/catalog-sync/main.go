// catalog-sync runs catalog ingestion from the shell against the server's
// database, e.g. to seed the cache before first start.
//
// Usage: catalog-sync [-sets] [-recent] [-set=<id>] [-search=<term>] [-page=N] [-page-size=N]
//
// Flags combine and run in the order sets, recent sets, set sweep, search.
// Configuration (DB_PATH, POKEMON_TCG_API_KEY, ...) is read the same way the
// server reads it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/allenlarson/pokemontcgtrader/internal/config"
	"github.com/allenlarson/pokemontcgtrader/internal/database"
	"github.com/allenlarson/pokemontcgtrader/internal/services"
	"github.com/allenlarson/pokemontcgtrader/internal/store"
)

func main() {
	allSets := flag.Bool("sets", false, "Refresh the full set list")
	recentSets := flag.Bool("recent", false, "Refresh sets released in the last two years")
	setID := flag.String("set", "", "Sweep every card of this set id")
	search := flag.String("search", "", "Fetch one page of cards whose name contains this term")
	page := flag.Int("page", 1, "Page for -search")
	pageSize := flag.Int("page-size", 20, "Page size for -search (max 250)")
	flag.Parse()

	if !*allSets && !*recentSets && *setID == "" && *search == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetupLogging(cfg.Log)

	db, err := database.Open(cfg.DB.Path, cfg.DB.LogLevel)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	client, err := services.NewPokemonTCGService(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to initialize Pokemon TCG client: %v", err)
	}
	ingestion := services.NewIngestionService(client, store.NewCardStore(db), store.NewSetStore(db))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := false
	fail := func(err error) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		failed = true
	}

	if *allSets {
		if res, err := ingestion.RefreshSets(ctx); err != nil {
			fail(err)
		} else {
			fmt.Println(res.Message)
		}
	}
	if *recentSets {
		if res, err := ingestion.RefreshRecentSets(ctx); err != nil {
			fail(err)
		} else {
			fmt.Println(res.Message)
		}
	}
	if *setID != "" {
		if res, err := ingestion.FetchAllCardsFromSet(ctx, *setID); err != nil {
			fail(err)
		} else {
			fmt.Println(res.Message)
		}
	}
	if *search != "" {
		res, err := ingestion.FetchCardsPage(ctx, services.FetchCardsParams{SearchTerm: *search, Page: *page, PageSize: *pageSize})
		if err != nil {
			fail(err)
		} else {
			fmt.Printf("Fetched %d cards (%d new) for %q, page %d, %d total matches\n",
				len(res.Cards), res.NewCards, *search, res.Page, res.TotalCount)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if failed {
		os.Exit(1)
	}
}
