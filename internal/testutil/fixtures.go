package testutil

import (
	"time"

	"github.com/sharpline/odds-intel/pkg/types"
)

// FixtureCommenceTime is the start time shared by the stock test fixtures.
//
//nolint:gochecknoglobals // shared fixture constant
var FixtureCommenceTime = time.Date(2025, time.November, 8, 19, 0, 0, 0, time.UTC)

// Float64Ptr returns a pointer to v, for optional line fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// CreateTestProviderEvent creates an NBA provider event pending resolution.
func CreateTestProviderEvent(provider string, providerEventID string) *types.ProviderEvent {
	return &types.ProviderEvent{
		Provider:        provider,
		ProviderEventID: providerEventID,
		Sport:           "basketball_nba",
		League:          "NBA",
		HomeTeam:        "Los Angeles Lakers",
		AwayTeam:        "Boston Celtics",
		CommenceTime:    FixtureCommenceTime,
		UpdatedAt:       FixtureCommenceTime.Add(-2 * time.Hour),
	}
}

// CreateTestSoccerProviderEvent creates a soccer provider event pending
// resolution, for exercising the fuzzy-match path.
func CreateTestSoccerProviderEvent(provider string, providerEventID string) *types.ProviderEvent {
	return &types.ProviderEvent{
		Provider:        provider,
		ProviderEventID: providerEventID,
		Sport:           "soccer_epl",
		League:          "EPL",
		HomeTeam:        "Arsenal FC",
		AwayTeam:        "Chelsea",
		CommenceTime:    FixtureCommenceTime,
		UpdatedAt:       FixtureCommenceTime.Add(-2 * time.Hour),
	}
}

// CreateTestEvent creates a canonical event sourced from a fixture feed.
func CreateTestEvent(sport string, home string, away string) *types.Event {
	return &types.Event{
		Sport:          sport,
		League:         "EPL",
		HomeTeam:       home,
		AwayTeam:       away,
		CommenceTime:   FixtureCommenceTime,
		Status:         types.EventStatusUpcoming,
		ExternalSource: "fixtures-feed",
		ExternalID:     "fix-" + home + "-" + away,
	}
}

// CreateTestOffer creates a moneyline offer for one side of a fixture.
func CreateTestOffer(book string, selection types.Selection, price float64) *types.Offer {
	return &types.Offer{
		Provider:        "oddsapi",
		ProviderEventID: "evt-1",
		BookKey:         book,
		Market:          types.MarketH2H,
		Selection:       selection,
		Price:           price,
		SourceUpdatedAt: FixtureCommenceTime.Add(-time.Hour),
	}
}

// CreateTestTotalsOffer creates a totals offer at the given line.
func CreateTestTotalsOffer(book string, selection types.Selection, line float64, price float64) *types.Offer {
	offer := CreateTestOffer(book, selection, price)
	offer.Market = types.MarketTotals
	offer.Line = Float64Ptr(line)
	return offer
}
