package sentiment

import (
	"context"
	"strings"
	"unicode"

	"tradebot/internal/interfaces"
	"tradebot/internal/policy"
)

// Lexicon scores text by averaging the polarity of the words it recognises.
// A negator ("not", "never", "n't" forms) within the two preceding tokens
// flips and dampens a word; an intensifier directly before it amplifies.
// Text with no polar words scores 0.
type Lexicon struct {
	polarity     map[string]float64
	intensifiers map[string]float64
	negators     map[string]bool
}

var _ interfaces.Scorer = (*Lexicon)(nil)

const (
	negationFactor = -0.5
	negationWindow = 2
)

func NewLexicon() *Lexicon {
	return &Lexicon{
		polarity:     loadPolarity(),
		intensifiers: loadIntensifiers(),
		negators:     loadNegators(),
	}
}

func (l *Lexicon) Name() string { return "lexicon" }

func (l *Lexicon) Score(_ context.Context, text string) (float64, error) {
	return l.Polarity(text), nil
}

// Polarity returns the clamped mean polarity of text.
func (l *Lexicon) Polarity(text string) float64 {
	words := tokenize(strings.ToLower(text))

	var sum float64
	var n int
	for i, w := range words {
		p, ok := l.polarity[w]
		if !ok {
			continue
		}
		if i > 0 {
			if m, ok := l.intensifiers[words[i-1]]; ok {
				p *= m
			}
		}
		if l.negated(words, i) {
			p *= negationFactor
		}
		sum += policy.Clamp(p)
		n++
	}
	if n == 0 {
		return 0
	}
	return policy.Clamp(sum / float64(n))
}

func (l *Lexicon) negated(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if l.negators[words[j]] || strings.HasSuffix(words[j], "n't") {
			return true
		}
	}
	return false
}

// tokenize splits on anything that is not a letter, digit, apostrophe or
// hyphen, keeping contractions like "won't" whole.
func tokenize(text string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.Trim(cur.String(), "'-"))
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cur.WriteRune(r)
		case r == '\'' || r == '’':
			cur.WriteRune('\'')
		case r == '-':
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

func loadPolarity() map[string]float64 {
	m := make(map[string]float64)
	set := func(p float64, words ...string) {
		for _, w := range words {
			m[w] = p
		}
	}

	// Loughran-McDonald style financial terms
	set(0.5,
		"achieve", "attain", "benefit", "better", "competitive", "enhance",
		"favorable", "gain", "gains", "grew", "growth", "improve", "improved",
		"improvement", "innovation", "innovative", "leader", "leading",
		"opportunity", "optimal", "optimistic", "outperform", "positive",
		"profitable", "progress", "prosper", "record", "robust", "solid",
		"strength", "strong", "succeed", "success", "successful", "superior",
		"surpass", "upbeat", "valuable", "well-positioned", "winning",
		"rally", "rallies", "surge", "surges", "soar", "soars", "boost",
		"boosts", "recovery", "rebound", "win", "wins", "won",
	)
	set(-0.5,
		"abandon", "adverse", "challenge", "challenging", "concern", "concerns",
		"damage", "debt", "decline", "declines", "decrease", "deficit",
		"deteriorate", "difficult", "difficulty", "disappoint", "disappointing",
		"disadvantage", "downturn", "erode", "fail", "fails", "failure", "falling",
		"fear", "fears", "headwind", "headwinds", "impair", "impairment",
		"inability", "inadequate", "ineffective", "loss", "losses", "negative",
		"obstacle", "poor", "problem", "recession", "restructuring", "risk",
		"risks", "slow", "slowdown", "uncertain", "uncertainty", "underperform",
		"unfavorable", "unprofitable", "volatile", "volatility", "weak",
		"weakness", "worse", "worsen", "plunge", "plunges", "slump", "slumps",
		"tumble", "tumbles", "lose", "loses", "lost",
	)

	// general and political vocabulary
	set(0.8, "excellent", "exceptional", "extraordinary", "tremendous", "remarkable", "great", "landmark", "historic")
	set(0.7, "good", "delight", "bipartisan", "breakthrough", "agreement", "deal", "peace", "celebrate")
	set(0.4, "support", "supports", "approve", "approves", "approved", "pass", "passes", "passed", "stable", "hope", "relief", "reform", "secure", "secures")
	set(0.2, "new", "agree", "agrees", "calm", "steady")
	set(-0.3, "delay", "delays", "dispute", "disputes", "tariff", "tariffs", "protest", "protests", "probe", "investigation", "lawsuit", "sanction", "sanctions")
	set(-0.6, "shutdown", "scandal", "impeachment", "impeach", "indicted", "indictment", "default", "gridlock", "stalemate", "deadlock", "collapse", "collapses", "threat", "threatens", "attack")
	set(-0.8, "crisis", "disaster", "catastrophe", "chaos", "terrible", "worst", "war", "violence", "corruption")
	return m
}

func loadIntensifiers() map[string]float64 {
	return map[string]float64{
		"very":        1.3,
		"extremely":   1.5,
		"highly":      1.3,
		"deeply":      1.3,
		"really":      1.2,
		"so":          1.2,
		"most":        1.3,
		"sharply":     1.4,
		"hugely":      1.4,
		"incredibly":  1.5,
		"slightly":    0.5,
		"somewhat":    0.6,
		"mildly":      0.6,
		"marginally":  0.5,
		"modestly":    0.7,
		"barely":      0.4,
		"partially":   0.7,
		"relatively":  0.8,
		"fairly":      0.8,
		"significant": 1.2,
	}
}

func loadNegators() map[string]bool {
	m := make(map[string]bool)
	for _, w := range []string{"not", "no", "never", "without", "nor", "neither", "hardly", "cannot"} {
		m[w] = true
	}
	return m
}
