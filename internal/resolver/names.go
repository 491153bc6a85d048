package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match scores returned by ScoreTeamNames. Discrete tiers keep scoring stable
// across small wording differences between providers.
const (
	scoreExact     = 100
	scoreSubstring = 80
	scoreStrong    = 70
	scoreGood      = 55
	scoreWeak      = 40
	scoreNone      = 0
)

// suffixTokens are club-name decorations that carry no identity.
var suffixTokens = map[string]bool{
	"fc":  true,
	"cf":  true,
	"sc":  true,
	"afc": true,
}

// diacriticStripper removes combining marks after NFD decomposition.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeTeamName canonicalizes a team name for fuzzy comparison:
// lower-case, diacritics stripped, non-alphanumerics removed, whitespace
// collapsed, common suffix tokens dropped.
func NormalizeTeamName(name string) string {
	s := strings.ToLower(name)

	stripped, _, err := transform.String(diacriticStripper, s)
	if err == nil {
		s = stripped
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if !suffixTokens[tok] {
			kept = append(kept, tok)
		}
	}

	return strings.Join(kept, " ")
}

// ScoreTeamNames scores the similarity of two raw team names.
// 100 exact, 80 substring, then token-Jaccard similarity mapped to tiers,
// 0 means no match.
func ScoreTeamNames(a, b string) int {
	na := NormalizeTeamName(a)
	nb := NormalizeTeamName(b)

	if na == "" || nb == "" {
		return scoreNone
	}

	if na == nb {
		return scoreExact
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return scoreSubstring
	}

	jaccard := tokenJaccard(na, nb)
	switch {
	case jaccard >= 0.6:
		return scoreStrong
	case jaccard >= 0.45:
		return scoreGood
	case jaccard >= 0.34:
		return scoreWeak
	default:
		return scoreNone
	}
}

// tokenJaccard computes |A∩B| / |A∪B| over whitespace-separated tokens of
// two already-normalized names.
func tokenJaccard(a, b string) float64 {
	setA := map[string]bool{}
	for _, tok := range strings.Fields(a) {
		setA[tok] = true
	}
	setB := map[string]bool{}
	for _, tok := range strings.Fields(b) {
		setB[tok] = true
	}

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// ScoreFixture scores a provider fixture against a candidate canonical
// fixture. Both team pairings must match; the weaker side bounds the score.
func ScoreFixture(homeA, awayA, homeB, awayB string) int {
	home := ScoreTeamNames(homeA, homeB)
	away := ScoreTeamNames(awayA, awayB)
	if home < away {
		return home
	}
	return away
}
