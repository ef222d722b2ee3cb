// Package match looks up user input in a knowledge base, first by exact
// prompt equality and then by token-overlap similarity.
package match

import (
	"strings"

	"github.com/xaenox/jarvis-bot/internal/knowledge"
)

// Threshold is the similarity a fuzzy candidate must strictly exceed.
const Threshold = 0.3

// DefaultResponse replaces an empty bot reply at resolution time.
const DefaultResponse = "I understand, but I don't have a specific response for that."

// Candidate is the best fuzzy match found for an input.
type Candidate struct {
	Prompt   string
	Response string
	Score    float64
}

type Engine struct {
	base *knowledge.Base
}

func NewEngine(base *knowledge.Base) *Engine {
	return &Engine{base: base}
}

// Normalize lower-cases and trims s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func response(bot string) string {
	if bot == "" {
		return DefaultResponse
	}
	return bot
}

// Exact returns the reply of the first pair, in load order, whose normalized
// prompt equals input.
func (e *Engine) Exact(input string) (string, bool) {
	for _, c := range e.base.Categories() {
		for _, p := range c.Conversations {
			if Normalize(p.User) == input {
				return response(p.Bot), true
			}
		}
	}
	return "", false
}

// Best scans every pair and returns the highest scoring one. Ties keep the
// first pair seen. ok is false when the knowledge base has no pairs.
func (e *Engine) Best(input string) (Candidate, bool) {
	inputTokens := tokenSet(input)

	var (
		best  Candidate
		found bool
	)
	for _, c := range e.base.Categories() {
		for _, p := range c.Conversations {
			score := jaccard(inputTokens, tokenSet(Normalize(p.User)))
			if !found || score > best.Score {
				best = Candidate{Prompt: p.User, Response: response(p.Bot), Score: score}
				found = true
			}
		}
	}
	return best, found
}

// FuzzyCandidate returns the best candidate if its score is above Threshold.
func (e *Engine) FuzzyCandidate(input string) (Candidate, bool) {
	best, ok := e.Best(input)
	if !ok || best.Score <= Threshold {
		return Candidate{}, false
	}
	return best, true
}

// Fuzzy returns the best scoring reply if its score is above Threshold.
func (e *Engine) Fuzzy(input string) (string, bool) {
	best, ok := e.FuzzyCandidate(input)
	return best.Response, ok
}

// Similarity is the Jaccard index of the whitespace token sets of a and b.
// Two empty inputs score 0.
func Similarity(a, b string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
