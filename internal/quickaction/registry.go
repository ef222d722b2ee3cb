package quickaction

import (
	"context"
	"strings"
	"time"
)

// Handler produces the reply for a quick action. It may block, e.g. on a
// news fetch, and should honour ctx.
type Handler func(ctx context.Context) (string, error)

// Action is a trigger-phrase-activated reply that bypasses knowledge lookup.
type Action struct {
	Name     string
	Triggers []string
	Handler  Handler
}

const (
	ActionTime       = "time"
	ActionNews       = "news"
	ActionCalculator = "calculator"
	ActionJoke       = "joke"
)

// Registry matches normalized input against actions in priority order.
type Registry struct {
	actions []Action
}

func NewRegistry(actions ...Action) *Registry {
	return &Registry{actions: actions}
}

// Match returns the first action, in registration order, with a trigger
// contained in input. Input is expected to be lower-cased already.
func (r *Registry) Match(input string) (*Action, bool) {
	for i := range r.actions {
		for _, trigger := range r.actions[i].Triggers {
			if strings.Contains(input, trigger) {
				return &r.actions[i], true
			}
		}
	}
	return nil, false
}

// Actions returns the registered actions in priority order.
func (r *Registry) Actions() []Action {
	return r.actions
}

type Options struct {
	Clock  func() time.Time
	Random Random
	News   NewsProvider
}

// NewDefaultRegistry wires the built-in actions: time, news, calculator and
// joke, checked in that order.
func NewDefaultRegistry(opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Random == nil {
		opts.Random = NewRandom(0)
	}
	if opts.News == nil {
		opts.News = NewStaticNews(Headlines, opts.Random)
	}

	return NewRegistry(
		Action{
			Name:     ActionTime,
			Triggers: []string{"time", "what time is it"},
			Handler: func(ctx context.Context) (string, error) {
				return CurrentTime(opts.Clock()), nil
			},
		},
		Action{
			Name:     ActionNews,
			Triggers: []string{"news", "latest news"},
			Handler: func(ctx context.Context) (string, error) {
				return LatestNews(ctx, opts.News), nil
			},
		},
		Action{
			Name:     ActionCalculator,
			Triggers: []string{"calculator", "math"},
			Handler: func(ctx context.Context) (string, error) {
				return CalculatorHelp, nil
			},
		},
		Action{
			Name:     ActionJoke,
			Triggers: []string{"joke", "tell me a joke"},
			Handler: func(ctx context.Context) (string, error) {
				return Pick(opts.Random, Jokes), nil
			},
		},
	)
}
