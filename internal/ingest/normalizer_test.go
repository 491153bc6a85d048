package ingest

import (
	"testing"

	"github.com/sharpline/odds-intel/pkg/types"
)

func TestNormalizeMarket(t *testing.T) {
	tests := []struct {
		key    string
		expect types.MarketType
		ok     bool
	}{
		{"h2h", types.MarketH2H, true},
		{"H2H", types.MarketH2H, true},
		{"moneyline", types.MarketH2H, true},
		{"spreads", types.MarketSpreads, true},
		{"spread", types.MarketSpreads, true},
		{"totals", types.MarketTotals, true},
		{"total", types.MarketTotals, true},
		{"outrights", "", false},
		{"player_props", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := NormalizeMarket(tt.key)
			if ok != tt.ok || got != tt.expect {
				t.Errorf("NormalizeMarket(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.expect, tt.ok)
			}
		})
	}
}

func TestNormalizeSelection(t *testing.T) {
	const (
		home = "Los Angeles Lakers"
		away = "Boston Celtics"
	)

	tests := []struct {
		name   string
		market types.MarketType
		label  string
		expect types.Selection
		ok     bool
	}{
		{"h2h-home-team", types.MarketH2H, home, types.SelectionHome, true},
		{"h2h-away-team", types.MarketH2H, away, types.SelectionAway, true},
		{"h2h-draw", types.MarketH2H, "Draw", types.SelectionDraw, true},
		{"h2h-draw-case-insensitive", types.MarketH2H, "DRAW", types.SelectionDraw, true},
		{"h2h-unknown-team", types.MarketH2H, "Chicago Bulls", "", false},
		{"h2h-partial-team-name", types.MarketH2H, "Lakers", "", false},
		{"spreads-home-team", types.MarketSpreads, home, types.SelectionHome, true},
		{"spreads-away-team", types.MarketSpreads, away, types.SelectionAway, true},
		{"spreads-draw-not-admitted", types.MarketSpreads, "Draw", "", false},
		{"totals-over", types.MarketTotals, "Over", types.SelectionOver, true},
		{"totals-under", types.MarketTotals, "Under", types.SelectionUnder, true},
		{"totals-case-insensitive", types.MarketTotals, "OVER", types.SelectionOver, true},
		{"totals-team-label", types.MarketTotals, home, "", false},
		{"unsupported-market", types.MarketType("outrights"), home, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeSelection(tt.market, tt.label, home, away)
			if ok != tt.ok || got != tt.expect {
				t.Errorf("NormalizeSelection(%s, %q) = %q, %v; want %q, %v",
					tt.market, tt.label, got, ok, tt.expect, tt.ok)
			}
		})
	}
}

func TestValidPrice(t *testing.T) {
	tests := []struct {
		price float64
		ok    bool
	}{
		{1.91, true},
		{1.01, true},
		{1.0, false}, // no return over stake, not true odds
		{0.95, false},
		{0.0, false},
		{-2.0, false},
	}

	for _, tt := range tests {
		if got := ValidPrice(tt.price); got != tt.ok {
			t.Errorf("ValidPrice(%.2f) = %v, want %v", tt.price, got, tt.ok)
		}
	}
}
