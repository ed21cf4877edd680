package examples

import (
	"context"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/settle-reactive/settle-go/pkg/settle"
)

// Match is one ranked dictionary hit.
type Match struct {
	// Word is the matched dictionary entry.
	Word string

	// Score ranks the match; higher is better.
	Score int

	// Positions are the matched rune indexes within Word, for
	// highlighting.
	Positions []int
}

// Dictionary returns a resolver that fuzzy-ranks words against the
// query, best match first. A blank query resolves to no matches.
//
// The latency is applied before ranking, simulating a slow backend; it
// honors context cancellation, so single-flight observations abort
// promptly.
func Dictionary(words []string, latency time.Duration) settle.Resolver[string, []Match] {
	return func(ctx context.Context, query string) ([]Match, error) {
		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if strings.TrimSpace(query) == "" {
			return nil, nil
		}

		ranked := fuzzy.Find(query, words)
		matches := make([]Match, len(ranked))
		for i, m := range ranked {
			matches[i] = Match{Word: m.Str, Score: m.Score, Positions: m.MatchedIndexes}
		}
		return matches, nil
	}
}
