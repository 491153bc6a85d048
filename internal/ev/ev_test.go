package ev

import (
	"math"
	"testing"

	"github.com/sharpline/odds-intel/internal/devig"
	"github.com/sharpline/odds-intel/internal/testutil"
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

func TestExpected(t *testing.T) {
	tests := []struct {
		name      string
		trueProb  float64
		price     float64
		stake     float64
		expectEV  float64
		expectPct float64
	}{
		{
			name:      "positive-ev-underpriced-favorite",
			trueProb:  0.55,
			price:     2.10,
			stake:     100.0,
			expectEV:  15.5, // 0.55*110 - 0.45*100
			expectPct: 0.155,
		},
		{
			name:      "fair-price-zero-ev",
			trueProb:  0.50,
			price:     2.00,
			stake:     100.0,
			expectEV:  0.0,
			expectPct: 0.0,
		},
		{
			name:      "negative-ev-vigged-price",
			trueProb:  0.50,
			price:     1.91,
			stake:     100.0,
			expectEV:  -4.5, // 0.5*91 - 0.5*100
			expectPct: -0.045,
		},
		{
			name:      "longshot-small-stake",
			trueProb:  0.10,
			price:     12.0,
			stake:     25.0,
			expectEV:  5.0, // 0.1*275 - 0.9*25
			expectPct: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, pct := Expected(tt.trueProb, tt.price, tt.stake)
			if math.Abs(ev-tt.expectEV) > 1e-9 {
				t.Errorf("expectedValue = %.9f, want %.9f", ev, tt.expectEV)
			}
			if math.Abs(pct-tt.expectPct) > 1e-9 {
				t.Errorf("expectedValuePct = %.9f, want %.9f", pct, tt.expectPct)
			}
		})
	}
}

func TestBaseline(t *testing.T) {
	results := []*devig.Result{
		{
			BookKey:   "bookmaker_a",
			OutcomeA:  types.SelectionAway,
			OutcomeB:  types.SelectionHome,
			FairProbA: 0.40,
			FairProbB: 0.60,
		},
		{
			BookKey:   "pinnacle",
			OutcomeA:  types.SelectionAway,
			OutcomeB:  types.SelectionHome,
			FairProbA: 0.45,
			FairProbB: 0.55,
		},
		{
			BookKey:   "bookmaker_b",
			OutcomeA:  types.SelectionAway,
			OutcomeB:  types.SelectionHome,
			FairProbA: 0.50,
			FairProbB: 0.50,
		},
	}

	tests := []struct {
		name           string
		referenceBooks []string
		results        []*devig.Result
		selection      types.Selection
		expectProb     float64
		expectOK       bool
	}{
		{
			name:           "reference-book-wins",
			referenceBooks: []string{"pinnacle"},
			results:        results,
			selection:      types.SelectionHome,
			expectProb:     0.55,
			expectOK:       true,
		},
		{
			name:           "reference-priority-order",
			referenceBooks: []string{"bookmaker_b", "pinnacle"},
			results:        results,
			selection:      types.SelectionAway,
			expectProb:     0.50,
			expectOK:       true,
		},
		{
			name:           "mean-fallback-without-reference",
			referenceBooks: []string{"betfair"},
			results:        results,
			selection:      types.SelectionHome,
			expectProb:     0.55, // (0.60 + 0.55 + 0.50) / 3
			expectOK:       true,
		},
		{
			name:           "no-results-no-baseline",
			referenceBooks: []string{"pinnacle"},
			results:        nil,
			selection:      types.SelectionHome,
			expectOK:       false,
		},
		{
			name:           "selection-not-covered",
			referenceBooks: []string{"pinnacle"},
			results:        results,
			selection:      types.SelectionOver,
			expectOK:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(Config{
				Stake:          100.0,
				ReferenceBooks: tt.referenceBooks,
				Logger:         zap.NewNop(),
			})

			prob, ok := calc.Baseline(tt.results, tt.selection)
			if ok != tt.expectOK {
				t.Fatalf("ok = %v, want %v", ok, tt.expectOK)
			}
			if ok && math.Abs(prob-tt.expectProb) > 1e-9 {
				t.Errorf("prob = %.9f, want %.9f", prob, tt.expectProb)
			}
		})
	}
}

func TestForOffer(t *testing.T) {
	calc := NewCalculator(Config{Stake: 100.0, Logger: zap.NewNop()})

	offer := testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 2.10)
	offer.EventID = 42

	estimate, ok := calc.ForOffer(offer, 0.55)
	if !ok {
		t.Fatal("expected estimate")
	}

	if estimate.EventID != 42 || estimate.BookKey != "bookmaker_a" {
		t.Errorf("identity = %d/%s, want 42/bookmaker_a", estimate.EventID, estimate.BookKey)
	}
	if math.Abs(estimate.ExpectedValue-15.5) > 1e-9 {
		t.Errorf("ExpectedValue = %.9f, want 15.5", estimate.ExpectedValue)
	}
	if math.Abs(estimate.ExpectedValuePct-0.155) > 1e-9 {
		t.Errorf("ExpectedValuePct = %.9f, want 0.155", estimate.ExpectedValuePct)
	}
	if estimate.TrueProbability != 0.55 {
		t.Errorf("TrueProbability = %.2f, want 0.55", estimate.TrueProbability)
	}
}

func TestForOffer_ProbabilityOutOfRange(t *testing.T) {
	calc := NewCalculator(Config{Stake: 100.0, Logger: zap.NewNop()})
	offer := testutil.CreateTestOffer("bookmaker_a", types.SelectionHome, 2.10)

	for _, prob := range []float64{0.0, 1.0, -0.2, 1.5} {
		if _, ok := calc.ForOffer(offer, prob); ok {
			t.Errorf("ForOffer with prob %.2f = true, want false", prob)
		}
	}
}

func TestEstimate_Key(t *testing.T) {
	estimate := &Estimate{
		EventID:   42,
		BookKey:   "bookmaker_a",
		Market:    types.MarketH2H,
		Selection: types.SelectionHome,
		Odds:      2.10,
		Stake:     100.0,
	}

	expect := "42|bookmaker_a|h2h|HOME|2.1|100.00"
	if got := estimate.Key(); got != expect {
		t.Errorf("Key() = %q, want %q", got, expect)
	}
}

func TestEstimate_Key_OddsPrecision(t *testing.T) {
	a := &Estimate{EventID: 42, BookKey: "bookmaker_a", Market: types.MarketH2H,
		Selection: types.SelectionHome, Odds: 2.10001, Stake: 100.0}
	b := &Estimate{EventID: 42, BookKey: "bookmaker_a", Market: types.MarketH2H,
		Selection: types.SelectionHome, Odds: 2.10002, Stake: 100.0}

	if a.Key() == b.Key() {
		t.Errorf("keys collide for distinct odds: %q", a.Key())
	}
}
