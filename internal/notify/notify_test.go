package notify

import (
	"lunchwatch/internal/diff"
	"lunchwatch/internal/menu"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeSkipsFirstCapture(t *testing.T) {
	menuDiff := diff.MenuDiff{
		New:         []string{"Raggmunk med stekt fläsk och lingon"},
		HasBaseline: false,
	}
	_, ok := Compose("Vecka 48", menuDiff, diff.PriceDiff{})
	require.False(t, ok)
}

func TestComposeSkipsUnchangedWeek(t *testing.T) {
	menuDiff := diff.MenuDiff{
		Continuing:  []string{"Köttbullar med gräddsås"},
		HasBaseline: true,
	}
	priceDiff := diff.PriceDiff{
		Changes: []diff.PriceChange{
			{Category: menu.CategoryLunchBuffet, Current: 125, Previous: 125, Direction: diff.DirectionUnchanged, HasBaseline: true},
			{Category: menu.CategoryTakeAway, Current: 115},
		},
	}
	_, ok := Compose("Vecka 48", menuDiff, priceDiff)
	require.False(t, ok)
}

func TestCompose(t *testing.T) {
	menuDiff := diff.MenuDiff{
		New:         []string{"Raggmunk med stekt fläsk och lingon"},
		Removed:     []string{"Stekt strömming med skirat smör"},
		HasBaseline: true,
	}
	priceDiff := diff.PriceDiff{
		Changes: []diff.PriceChange{
			{Category: menu.CategoryLunchBuffet, Current: 129, Previous: 125, Delta: 4, Direction: diff.DirectionUp, HasBaseline: true},
			{Category: menu.CategorySenior, Current: 95, Previous: 99, Delta: -4, Direction: diff.DirectionDown, HasBaseline: true},
		},
		Changed: true,
	}

	msg, ok := Compose("Vecka 48", menuDiff, priceDiff)
	require.True(t, ok)
	require.Equal(t, "Kajen Gävle Vecka 48: menyn har ändrats", msg.Subject)
	require.Contains(t, msg.Body, "Vecka 48\n")
	require.Contains(t, msg.Body, "  + Raggmunk med stekt fläsk och lingon")
	require.Contains(t, msg.Body, "  - Stekt strömming med skirat smör")
	require.Contains(t, msg.Body, "  ↑ Lunchbuffé: 125 → 129 kr")
	require.Contains(t, msg.Body, "  ↓ Pensionärspris: 99 → 95 kr")
}

func TestComposePriceOnly(t *testing.T) {
	menuDiff := diff.MenuDiff{
		Continuing:  []string{"Köttbullar med gräddsås"},
		HasBaseline: true,
	}
	priceDiff := diff.PriceDiff{
		Changes: []diff.PriceChange{
			{Category: menu.CategoryLunchBuffet, Current: 129, Previous: 125, Delta: 4, Direction: diff.DirectionUp, HasBaseline: true},
		},
		Changed: true,
	}

	msg, ok := Compose("", menuDiff, priceDiff)
	require.True(t, ok)
	require.Equal(t, "Kajen Gävle: menyn har ändrats", msg.Subject)
	require.NotContains(t, msg.Body, "Nya rätter")
	require.NotContains(t, msg.Body, "Borttagna rätter")
	require.Contains(t, msg.Body, "Prisändringar:")
}

func TestConfigEnabled(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.False(t, Config{Server: "smtp.example.com", From: "a@example.com"}.Enabled())

	cfg := Config{
		Server: "smtp.example.com",
		Port:   587,
		From:   "a@example.com",
		To:     []string{"b@example.com"},
	}
	require.True(t, cfg.Enabled())
}
