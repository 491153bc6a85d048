package pipeline

import (
	"testing"

	"github.com/sharpline/odds-intel/internal/testutil"
	"github.com/sharpline/odds-intel/pkg/types"
)

func TestBuildTwoWayGroups(t *testing.T) {
	tests := []struct {
		name         string
		offers       []*types.Offer
		expectGroups int
	}{
		{
			name: "complete-moneyline-pair",
			offers: []*types.Offer{
				testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 1.91),
				testutil.CreateTestOffer("bookmaker_a", types.SelectionAway, 2.05),
			},
			expectGroups: 1,
		},
		{
			name: "one-sided-quote-ineligible",
			offers: []*types.Offer{
				testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 1.91),
			},
			expectGroups: 0,
		},
		{
			name: "draw-makes-market-three-way",
			offers: []*types.Offer{
				testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 2.50),
				testutil.CreateTestOffer("bookmaker_a", types.SelectionAway, 2.90),
				testutil.CreateTestOffer("bookmaker_a", types.SelectionDraw, 3.20),
			},
			expectGroups: 0,
		},
		{
			name: "books-grouped-independently",
			offers: []*types.Offer{
				testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 1.91),
				testutil.CreateTestOffer("bookmaker_a", types.SelectionAway, 2.05),
				testutil.CreateTestOffer("bookmaker_b", types.SelectionHome, 1.95),
				testutil.CreateTestOffer("bookmaker_b", types.SelectionAway, 2.00),
				testutil.CreateTestOffer("bookmaker_c", types.SelectionHome, 1.90),
			},
			expectGroups: 2,
		},
		{
			name: "totals-pair",
			offers: []*types.Offer{
				testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionOver, 221.5, 1.87),
				testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionUnder, 221.5, 1.95),
			},
			expectGroups: 1,
		},
		{
			name: "different-lines-do-not-pair",
			offers: []*types.Offer{
				testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionOver, 221.5, 1.87),
				testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionUnder, 222.5, 1.95),
			},
			expectGroups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := BuildTwoWayGroups(tt.offers)
			if len(groups) != tt.expectGroups {
				t.Errorf("got %d groups, want %d", len(groups), tt.expectGroups)
			}
		})
	}
}

func TestBuildTwoWayGroups_DeterministicOrder(t *testing.T) {
	// Same input, shuffled: the group order must be identical.
	offers := []*types.Offer{
		testutil.CreateTestOffer("bookmaker_b", types.SelectionAway, 2.00),
		testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 1.91),
		testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionUnder, 221.5, 1.95),
		testutil.CreateTestOffer("bookmaker_b", types.SelectionHome, 1.95),
		testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionOver, 221.5, 1.87),
		testutil.CreateTestOffer("bookmaker_a", types.SelectionAway, 2.05),
	}

	groups := BuildTwoWayGroups(offers)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// h2h sorts before totals; within a market, book key breaks the tie.
	if groups[0].Market != types.MarketH2H || groups[0].BookKey != "bookmaker_a" {
		t.Errorf("group 0 = %s/%s, want h2h/bookmaker_a", groups[0].Market, groups[0].BookKey)
	}
	if groups[1].Market != types.MarketH2H || groups[1].BookKey != "bookmaker_b" {
		t.Errorf("group 1 = %s/%s, want h2h/bookmaker_b", groups[1].Market, groups[1].BookKey)
	}
	if groups[2].Market != types.MarketTotals {
		t.Errorf("group 2 market = %s, want totals", groups[2].Market)
	}

	// A/B is the canonical selection order within each group.
	if groups[0].A.Selection != types.SelectionAway || groups[0].B.Selection != types.SelectionHome {
		t.Errorf("group 0 selections = %s/%s, want AWAY/HOME", groups[0].A.Selection, groups[0].B.Selection)
	}
	if groups[2].A.Selection != types.SelectionOver || groups[2].B.Selection != types.SelectionUnder {
		t.Errorf("group 2 selections = %s/%s, want OVER/UNDER", groups[2].A.Selection, groups[2].B.Selection)
	}
}

func TestBuildBoards(t *testing.T) {
	offers := []*types.Offer{
		testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 1.91),
		testutil.CreateTestOffer("bookmaker_a", types.SelectionAway, 2.05),
		testutil.CreateTestOffer("bookmaker_b", types.SelectionHome, 1.95),
		testutil.CreateTestOffer("bookmaker_b", types.SelectionAway, 2.00),
		// bookmaker_c only quotes one side; it still joins the board.
		testutil.CreateTestOffer("bookmaker_c", types.SelectionHome, 2.20),
		testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionOver, 221.5, 1.87),
		testutil.CreateTestTotalsOffer("bookmaker_a", types.SelectionUnder, 221.5, 1.95),
	}

	boards := BuildBoards(offers)
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}

	h2hBoard := boards[0]
	if h2hBoard.Market != types.MarketH2H {
		t.Fatalf("board 0 market = %s, want h2h", h2hBoard.Market)
	}
	if len(h2hBoard.Offers) != 5 {
		t.Errorf("h2h board has %d offers, want 5 (including one-sided book)", len(h2hBoard.Offers))
	}
	last := h2hBoard.Offers[len(h2hBoard.Offers)-1]
	if last.BookKey != "bookmaker_c" || last.Selection != types.SelectionHome {
		t.Errorf("final board offer = %s/%s, want bookmaker_c/HOME", last.BookKey, last.Selection)
	}

	totalsBoard := boards[1]
	if totalsBoard.Market != types.MarketTotals {
		t.Fatalf("board 1 market = %s, want totals", totalsBoard.Market)
	}
	if totalsBoard.Line == nil || *totalsBoard.Line != 221.5 {
		t.Error("totals board missing line")
	}
}

func TestBuildBoards_DrawExcludesBoard(t *testing.T) {
	// One book hanging a DRAW quote makes the whole head-to-head market
	// three-way: no board, even for books quoting only HOME/AWAY.
	offers := []*types.Offer{
		testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 2.50),
		testutil.CreateTestOffer("bookmaker_a", types.SelectionAway, 2.90),
		testutil.CreateTestOffer("bookmaker_b", types.SelectionHome, 2.55),
		testutil.CreateTestOffer("bookmaker_b", types.SelectionAway, 2.85),
		testutil.CreateTestOffer("bookmaker_b", types.SelectionDraw, 3.20),
	}

	if boards := BuildBoards(offers); len(boards) != 0 {
		t.Errorf("expected no boards, got %d", len(boards))
	}
}
