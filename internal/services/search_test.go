package services

import (
	"context"
	"sort"
	"testing"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

func strPtr(s string) *string { return &s }

func testCard(id, name, setID, rarity string, types ...string) models.Card {
	c := models.Card{CardID: id, Name: name, SetID: setID, SetName: setID}
	if rarity != "" {
		c.Rarity = strPtr(rarity)
	}
	if len(types) > 0 {
		c.Types = types
	}
	return c
}

func cardIDsOf(cards []models.Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.CardID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterCards(t *testing.T) {
	cards := []models.Card{
		testCard("a", "Charizard", "base1", "Rare Holo", "Fire"),
		testCard("b", "Blastoise", "base1", "Rare Holo", "Water"),
		testCard("c", "Dragonite", "fossil", "Rare Holo", "Colorless"),
		testCard("d", "Moltres", "fossil", "Rare", "Fire", "Flying"),
		testCard("e", "Double Colorless Energy", "base1", "Uncommon"),
		testCard("f", "Gyarados", "base1", "", "Water", "Fire"),
	}

	tests := []struct {
		name   string
		filter models.CardFilter
		want   []string
	}{
		{"empty filter keeps everything", models.CardFilter{}, []string{"a", "b", "c", "d", "e", "f"}},
		{"name is case insensitive substring", models.CardFilter{SearchTerm: "CHAR"}, []string{"a"}},
		{"set", models.CardFilter{SetID: "fossil"}, []string{"c", "d"}},
		{"rarity is exact", models.CardFilter{Rarity: "Rare"}, []string{"d"}},
		{"rarity skips cards without one", models.CardFilter{Rarity: "Uncommon"}, []string{"e"}},
		{"any shared type", models.CardFilter{Types: []string{"Fire", "Flying"}}, []string{"a", "d", "f"}},
		{"no shared type", models.CardFilter{Types: []string{"Grass"}}, []string{}},
		{"untyped cards never match a type filter", models.CardFilter{Types: []string{"Colorless"}}, []string{"c"}},
		{"filters combine", models.CardFilter{SetID: "base1", Rarity: "Rare Holo", Types: []string{"Water"}}, []string{"b"}},
		{"name and type", models.CardFilter{SearchTerm: "o", Types: []string{"Fire"}}, []string{"d", "f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cardIDsOf(FilterCards(cards, tt.filter))
			if !equalStrings(got, tt.want) {
				t.Errorf("FilterCards(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestHasAnyType(t *testing.T) {
	tests := []struct {
		name  string
		card  models.Card
		types []string
		want  bool
	}{
		{"shared tag", testCard("1", "x", "s", "", "Water", "Fire"), []string{"Fire", "Flying"}, true},
		{"disjoint", testCard("2", "x", "s", "", "Water", "Grass"), []string{"Fire", "Flying"}, false},
		{"untagged card", testCard("3", "x", "s", ""), []string{"Fire"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.HasAnyType(tt.types); got != tt.want {
				t.Errorf("HasAnyType(%v) = %v, want %v", tt.types, got, tt.want)
			}
		})
	}
}

func seedCards(t *testing.T, env *testEnv, cards ...models.Card) {
	t.Helper()
	for i := range cards {
		if _, err := env.cards.InsertIfAbsent(context.Background(), &cards[i]); err != nil {
			t.Fatalf("seed %s: %v", cards[i].CardID, err)
		}
	}
}

func TestSearch_InsertionOrderAndPartition(t *testing.T) {
	env := newTestEnv(t, &fakeCatalog{})
	seedCards(t, env,
		testCard("sv1-3", "Sprigatito", "sv1", "Common", "Grass"),
		testCard("base1-4", "Charizard", "base1", "Rare Holo", "Fire"),
		testCard("sv1-1", "Pineco", "sv1", "Common", "Grass"),
	)
	ctx := context.Background()

	all, err := env.search.Search(ctx, models.CardFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if got := cardIDsOf(all.Cards); !equalStrings(got, []string{"sv1-3", "base1-4", "sv1-1"}) {
		t.Errorf("full scan order = %v", got)
	}

	bySet, err := env.search.Search(ctx, models.CardFilter{SetID: "sv1", Types: []string{"Grass"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := cardIDsOf(bySet.Cards); !equalStrings(got, []string{"sv1-3", "sv1-1"}) {
		t.Errorf("set scan = %v", got)
	}
	if bySet.TotalCount != 2 {
		t.Errorf("TotalCount = %d", bySet.TotalCount)
	}

	none, err := env.search.Search(ctx, models.CardFilter{SetID: "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if none.TotalCount != 0 || none.Cards == nil {
		t.Errorf("empty result should be an empty list, got %+v", none)
	}

	if env.fake.cardRequestCount() != 0 {
		t.Error("search must not call the catalog API")
	}
}

func TestGetCard(t *testing.T) {
	env := newTestEnv(t, &fakeCatalog{})
	seedCards(t, env, testCard("base1-4", "Charizard", "base1", "Rare Holo", "Fire"))

	card, err := env.search.GetCard(context.Background(), "base1-4")
	if err != nil || card == nil || card.Name != "Charizard" {
		t.Fatalf("GetCard = %+v, %v", card, err)
	}
	missing, err := env.search.GetCard(context.Background(), "nope")
	if err != nil || missing != nil {
		t.Errorf("missing card = %+v, %v", missing, err)
	}
}

func TestSuggest(t *testing.T) {
	env := newTestEnv(t, &fakeCatalog{})
	seedCards(t, env,
		testCard("a", "Pikachu", "base1", ""),
		testCard("b", "Pikachu V", "swsh4", ""),
		testCard("c", "Charizard", "base1", ""),
		testCard("d", "Pikachu", "jungle", ""),
		testCard("e", "Raichu", "base1", ""),
	)
	ctx := context.Background()

	got, err := env.search.Suggest(ctx, "pikchu", 10)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	if !equalStrings(got, []string{"Pikachu", "Pikachu V"}) {
		t.Errorf("Suggest(pikchu) = %v", got)
	}

	limited, err := env.search.Suggest(ctx, "a", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied: %v", limited)
	}

	empty, err := env.search.Suggest(ctx, "   ", 5)
	if err != nil || len(empty) != 0 {
		t.Errorf("blank term = %v, %v", empty, err)
	}
}

func TestListSets_NewestFirst(t *testing.T) {
	env := newTestEnv(t, &fakeCatalog{})
	ctx := context.Background()
	for _, s := range []models.Set{
		{SetID: "base1", Name: "Base", ReleaseDate: "1999/01/09"},
		{SetID: "sv1", Name: "Scarlet & Violet", ReleaseDate: "2023/03/31"},
		{SetID: "swsh1", Name: "Sword & Shield", ReleaseDate: "2020/02/07"},
	} {
		s := s
		if _, err := env.sets.InsertIfAbsent(ctx, &s); err != nil {
			t.Fatal(err)
		}
	}

	sets, err := env.search.ListSets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, s := range sets {
		ids = append(ids, s.SetID)
	}
	if !equalStrings(ids, []string{"sv1", "swsh1", "base1"}) {
		t.Errorf("ListSets order = %v", ids)
	}
}
