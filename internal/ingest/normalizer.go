package ingest

import (
	"strings"

	"github.com/sharpline/odds-intel/pkg/types"
)

// NormalizeMarket maps a provider market key to a supported market type.
func NormalizeMarket(key string) (types.MarketType, bool) {
	switch strings.ToLower(key) {
	case "h2h", "moneyline":
		return types.MarketH2H, true
	case "spreads", "spread":
		return types.MarketSpreads, true
	case "totals", "total":
		return types.MarketTotals, true
	default:
		return "", false
	}
}

// NormalizeSelection maps a raw outcome label onto a canonical selection code
// for the given market, using the event's recorded team names. It is pure and
// total: it either returns a valid code or reports no match.
//
// For h2h and spreads the label must equal the home or away team name exactly;
// h2h additionally admits a "draw" label. For totals the label is matched
// case-insensitively against over/under.
func NormalizeSelection(market types.MarketType, label, homeTeam, awayTeam string) (types.Selection, bool) {
	switch market {
	case types.MarketH2H:
		switch {
		case label == homeTeam:
			return types.SelectionHome, true
		case label == awayTeam:
			return types.SelectionAway, true
		case strings.EqualFold(label, "draw"):
			return types.SelectionDraw, true
		}
	case types.MarketSpreads:
		switch {
		case label == homeTeam:
			return types.SelectionHome, true
		case label == awayTeam:
			return types.SelectionAway, true
		}
	case types.MarketTotals:
		switch {
		case strings.EqualFold(label, "over"):
			return types.SelectionOver, true
		case strings.EqualFold(label, "under"):
			return types.SelectionUnder, true
		}
	}
	return "", false
}

// ValidPrice reports whether a quoted price represents true decimal odds.
func ValidPrice(price float64) bool {
	return price > 1.0
}
