package pipeline

import (
	"sort"

	"github.com/sharpline/odds-intel/pkg/types"
)

// OfferGroup is one bookmaker's pair of complementary quotes for a
// two-outcome market: the unit of devig computation. A and B are in
// deterministic selection order, stable across runs.
type OfferGroup struct {
	EventID         int64
	Provider        string
	ProviderEventID string
	BookKey         string
	Market          types.MarketType
	Line            *float64
	A               *types.Offer
	B               *types.Offer
}

// MarketBoard collects the canonical-pair offers of one (event, market, line)
// across all bookmakers, one-sided books included: the unit of arbitrage
// scanning and EV estimation.
type MarketBoard struct {
	EventID         int64
	Provider        string
	ProviderEventID string
	Market          types.MarketType
	Line            *float64
	Offers          []*types.Offer
}

func (b *MarketBoard) boardKey() string {
	return b.ProviderEventID + "|" + string(b.Market) + "|" + types.FormatLine(b.Line)
}

// twoWayPair returns the canonical selection pair for a market. Three-way
// head-to-head (with DRAW) is out of scope for devig/arbitrage/EV.
func twoWayPair(market types.MarketType) (types.Selection, types.Selection, bool) {
	switch market {
	case types.MarketH2H, types.MarketSpreads:
		return types.SelectionAway, types.SelectionHome, true
	case types.MarketTotals:
		return types.SelectionOver, types.SelectionUnder, true
	default:
		return "", "", false
	}
}

// BuildTwoWayGroups buckets linked offers by (provider event, market, line,
// bookmaker) and keeps only groups quoting exactly the market's two canonical
// selections. Groups come back ordered by (provider_event_id, market, line,
// book_key) so downstream computation is reproducible.
func BuildTwoWayGroups(offers []*types.Offer) []OfferGroup {
	type bucketKey struct {
		provider        string
		providerEventID string
		bookKey         string
		market          types.MarketType
		line            string
	}

	buckets := make(map[bucketKey][]*types.Offer)
	for _, offer := range offers {
		key := bucketKey{
			provider:        offer.Provider,
			providerEventID: offer.ProviderEventID,
			bookKey:         offer.BookKey,
			market:          offer.Market,
			line:            types.FormatLine(offer.Line),
		}
		buckets[key] = append(buckets[key], offer)
	}

	var groups []OfferGroup
	for _, bucket := range buckets {
		group, ok := eligibleGroup(bucket)
		if !ok {
			continue
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.ProviderEventID != b.ProviderEventID {
			return a.ProviderEventID < b.ProviderEventID
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		la, lb := types.FormatLine(a.Line), types.FormatLine(b.Line)
		if la != lb {
			return la < lb
		}
		return a.BookKey < b.BookKey
	})

	return groups
}

// eligibleGroup validates one bucket: exactly two offers covering the
// market's canonical pair. A DRAW quote makes a head-to-head market
// three-way and disqualifies the whole bucket.
func eligibleGroup(bucket []*types.Offer) (OfferGroup, bool) {
	if len(bucket) != 2 {
		return OfferGroup{}, false
	}

	first, second := bucket[0], bucket[1]
	selA, selB, ok := twoWayPair(first.Market)
	if !ok {
		return OfferGroup{}, false
	}

	a, b := first, second
	if a.Selection > b.Selection {
		a, b = b, a
	}
	if a.Selection != selA || b.Selection != selB {
		return OfferGroup{}, false
	}

	return OfferGroup{
		EventID:         a.EventID,
		Provider:        a.Provider,
		ProviderEventID: a.ProviderEventID,
		BookKey:         a.BookKey,
		Market:          a.Market,
		Line:            a.Line,
		A:               a,
		B:               b,
	}, true
}

// BuildBoards buckets linked offers into per-(event, market, line) boards
// across bookmakers, restricted to the market's canonical selection pair. A
// bookmaker quoting only one side still contributes: its price competes for
// best-per-selection in arbitrage scanning and gets an EV estimate against
// the board baseline. A DRAW quote makes a head-to-head board three-way and
// excludes the whole board. Boards come back ordered by (provider_event_id,
// market, line); offers within a board by (book_key, selection).
func BuildBoards(offers []*types.Offer) []*MarketBoard {
	index := make(map[string]*MarketBoard)
	threeWay := make(map[string]bool)

	for _, offer := range offers {
		selA, selB, ok := twoWayPair(offer.Market)
		if !ok {
			continue
		}

		board := &MarketBoard{
			EventID:         offer.EventID,
			Provider:        offer.Provider,
			ProviderEventID: offer.ProviderEventID,
			Market:          offer.Market,
			Line:            offer.Line,
		}
		key := board.boardKey()

		if offer.Selection != selA && offer.Selection != selB {
			threeWay[key] = true
			continue
		}

		existing, ok := index[key]
		if !ok {
			index[key] = board
			existing = board
		}
		existing.Offers = append(existing.Offers, offer)
	}

	boards := make([]*MarketBoard, 0, len(index))
	for key, board := range index {
		if threeWay[key] {
			continue
		}
		boards = append(boards, board)
	}

	sort.Slice(boards, func(i, j int) bool {
		a, b := boards[i], boards[j]
		if a.ProviderEventID != b.ProviderEventID {
			return a.ProviderEventID < b.ProviderEventID
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		return types.FormatLine(a.Line) < types.FormatLine(b.Line)
	})

	for _, board := range boards {
		sort.Slice(board.Offers, func(i, j int) bool {
			a, b := board.Offers[i], board.Offers[j]
			if a.BookKey != b.BookKey {
				return a.BookKey < b.BookKey
			}
			return a.Selection < b.Selection
		})
	}

	return boards
}
