// Package knowledge holds the category -> conversation pair data the resolver
// matches against, and the sources it can be loaded from.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/jarvis-bot/internal/models"
)

// Base is an immutable, ordered knowledge base. It is safe for concurrent reads.
type Base struct {
	categories []models.Category
	pairs      int
}

// NewBase copies categories into a Base, preserving order. Pairs whose prompt
// is blank are dropped so every stored pair has a non-empty User.
func NewBase(categories []models.Category) *Base {
	b := &Base{categories: make([]models.Category, 0, len(categories))}
	for _, c := range categories {
		kept := make([]models.ConversationPair, 0, len(c.Conversations))
		for _, p := range c.Conversations {
			if strings.TrimSpace(p.User) == "" {
				continue
			}
			kept = append(kept, p)
		}
		b.categories = append(b.categories, models.Category{Name: c.Name, Conversations: kept})
		b.pairs += len(kept)
	}
	return b
}

// Empty returns a base with no categories, used when loading fails.
func Empty() *Base {
	return &Base{}
}

// Categories returns the categories in load order. Callers must not modify
// the returned slice.
func (b *Base) Categories() []models.Category {
	if b == nil {
		return nil
	}
	return b.categories
}

// Len returns the number of conversation pairs across all categories.
func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return b.pairs
}

// Source is anything a Base can be loaded from.
type Source interface {
	Load(ctx context.Context) (*Base, error)
	String() string
}

// LoadError reports a knowledge base that could not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load knowledge base from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads src and wraps any failure in a *LoadError.
func Load(ctx context.Context, src Source) (*Base, error) {
	base, err := src.Load(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.String(), Err: err}
	}
	if base == nil {
		return Empty(), nil
	}
	return base, nil
}
