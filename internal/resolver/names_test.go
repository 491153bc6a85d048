package resolver

import "testing"

func TestNormalizeTeamName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"lowercase", "Arsenal", "arsenal"},
		{"suffix-fc-dropped", "Arsenal FC", "arsenal"},
		{"suffix-afc-dropped", "Bournemouth AFC", "bournemouth"},
		{"diacritics-stripped", "Atlético Madrid", "atletico madrid"},
		{"punctuation-removed", "St. Louis City SC", "st louis city"},
		{"whitespace-collapsed", "  Real   Madrid  CF ", "real madrid"},
		{"digits-kept", "Schalke 04", "schalke 04"},
		{"empty", "", ""},
		{"only-suffix", "FC", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTeamName(tt.input); got != tt.expect {
				t.Errorf("NormalizeTeamName(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestScoreTeamNames(t *testing.T) {
	tests := []struct {
		name   string
		a      string
		b      string
		expect int
	}{
		{"identical", "Arsenal", "Arsenal", 100},
		{"exact-after-normalization", "Arsenal FC", "arsenal", 100},
		{"exact-after-diacritics", "Atlético Madrid", "Atletico Madrid", 100},
		{"substring", "Wolverhampton Wanderers", "Wolverhampton", 80},
		{"strong-token-overlap", "Brighton Hove Albion", "Brighton and Hove Albion", 70},
		{"good-token-overlap", "Los Angeles Galaxy", "Los Angeles Rams", 55},
		{"weak-token-overlap", "New York City", "New York Red Bulls", 40},
		{"shared-city-only", "Manchester United", "Manchester City", 0},
		{"no-overlap", "Arsenal", "Chelsea", 0},
		{"empty-side", "", "Arsenal", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreTeamNames(tt.a, tt.b); got != tt.expect {
				t.Errorf("ScoreTeamNames(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expect)
			}
		})
	}
}

func TestScoreFixture(t *testing.T) {
	tests := []struct {
		name   string
		homeA  string
		awayA  string
		homeB  string
		awayB  string
		expect int
	}{
		{
			name:  "both-exact",
			homeA: "Arsenal", awayA: "Chelsea",
			homeB: "Arsenal FC", awayB: "Chelsea FC",
			expect: 100,
		},
		{
			name:  "weaker-side-bounds",
			homeA: "Arsenal", awayA: "Wolverhampton Wanderers",
			homeB: "Arsenal", awayB: "Wolverhampton",
			expect: 80,
		},
		{
			name:  "one-side-no-match",
			homeA: "Arsenal", awayA: "Chelsea",
			homeB: "Arsenal", awayB: "Liverpool",
			expect: 0,
		},
		{
			name:  "swapped-fixture-no-match",
			homeA: "Arsenal", awayA: "Chelsea",
			homeB: "Chelsea", awayB: "Arsenal",
			expect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreFixture(tt.homeA, tt.awayA, tt.homeB, tt.awayB)
			if got != tt.expect {
				t.Errorf("ScoreFixture = %d, want %d", got, tt.expect)
			}
		})
	}
}

func TestTokenJaccard(t *testing.T) {
	tests := []struct {
		name   string
		a      string
		b      string
		expect float64
	}{
		{"identical", "real madrid", "real madrid", 1.0},
		{"half-overlap", "manchester united", "manchester city", 1.0 / 3.0},
		{"disjoint", "arsenal", "chelsea", 0.0},
		{"empty", "", "arsenal", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenJaccard(tt.a, tt.b)
			if got != tt.expect {
				t.Errorf("tokenJaccard(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expect)
			}
		})
	}
}
