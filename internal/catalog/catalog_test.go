package catalog

import (
	"strings"
	"testing"
)

func TestCardIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range append(MeansCards(), EvidenceCards()...) {
		if seen[c.ID] {
			t.Errorf("duplicate card id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestCardTypesMatchPool(t *testing.T) {
	for _, c := range MeansCards() {
		if c.Type != CardTypeMeans {
			t.Errorf("card %q in means pool has type %q", c.ID, c.Type)
		}
	}
	for _, c := range EvidenceCards() {
		if c.Type != CardTypeEvidence {
			t.Errorf("card %q in evidence pool has type %q", c.ID, c.Type)
		}
	}
}

func TestTilesHaveSixOptions(t *testing.T) {
	tiles := append([]Tile{CauseOfDeathTile()}, LocationTiles()...)
	tiles = append(tiles, TopicTiles()...)
	for _, tile := range tiles {
		for i, opt := range tile.Options {
			if opt == "" {
				t.Errorf("tile %q option %d is empty", tile.ID, i)
			}
		}
	}
}

func TestTileIDConventions(t *testing.T) {
	if CauseOfDeathTile().ID != CauseOfDeathTileID {
		t.Errorf("cause of death tile id = %q", CauseOfDeathTile().ID)
	}
	for _, tile := range LocationTiles() {
		if !strings.HasPrefix(tile.ID, LocationTilePrefix) {
			t.Errorf("location tile %q missing %q prefix", tile.ID, LocationTilePrefix)
		}
	}
	for _, tile := range TopicTiles() {
		if tile.ID == CauseOfDeathTileID || strings.HasPrefix(tile.ID, LocationTilePrefix) {
			t.Errorf("topic tile %q uses a reserved id", tile.ID)
		}
	}
}

func TestPoolSizesSupportAFullTable(t *testing.T) {
	// 11 non-scientist players at 4 cards each.
	if got := len(MeansCards()); got < 38 {
		t.Errorf("means pool too small: %d", got)
	}
	if got := len(EvidenceCards()); got < 41 {
		t.Errorf("evidence pool too small: %d", got)
	}
	// 1 location + 4 topics + a 14-tile replacement deck.
	if got := len(TopicTiles()); got < 18 {
		t.Errorf("topic tile pool too small: %d", got)
	}
}

func TestAvatarColors(t *testing.T) {
	colors := AvatarColors()
	if len(colors) < 12 {
		t.Fatalf("need at least one color per seat, got %d", len(colors))
	}
	for _, c := range colors {
		if !IsAvatarColor(c) {
			t.Errorf("IsAvatarColor(%q) = false", c)
		}
	}
	if IsAvatarColor("plaid") {
		t.Error("IsAvatarColor accepted an unknown color")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := MeansCards()
	a[0].Name = "tampered"
	if MeansCards()[0].Name == "tampered" {
		t.Error("MeansCards returns shared backing storage")
	}
	b := AvatarColors()
	b[0] = "tampered"
	if AvatarColors()[0] == "tampered" {
		t.Error("AvatarColors returns shared backing storage")
	}
}
