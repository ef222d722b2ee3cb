// Package resolver turns free-text input into a single reply by trying, in
// order: quick actions, arithmetic, exact knowledge match, fuzzy knowledge
// match and finally a generic reply.
package resolver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/jarvis-bot/internal/expression"
	"github.com/xaenox/jarvis-bot/internal/knowledge"
	"github.com/xaenox/jarvis-bot/internal/match"
	"github.com/xaenox/jarvis-bot/internal/models"
	"github.com/xaenox/jarvis-bot/internal/quickaction"
	"go.uber.org/zap"
)

const (
	LoadingResponse = "I'm still loading my knowledge base. Please try again in a moment."
	ErrorResponse   = "Sorry, I encountered an error. Please try again."
)

var GenericResponses = []string{
	"That's an interesting question. Let me think about it.",
	"I understand you're asking about that. Could you tell me more?",
	"That's a thoughtful question. What would you like to know specifically?",
	"I see what you're getting at. Let me process that.",
	"Interesting perspective. Tell me more about what you're thinking.",
}

type loaded struct {
	base   *knowledge.Base
	engine *match.Engine
}

type Resolver struct {
	actions     *quickaction.Registry
	rnd         quickaction.Random
	logger      *zap.Logger
	loadTimeout time.Duration

	state atomic.Pointer[loaded]

	mu       sync.Mutex
	cancel   context.CancelFunc
	loadDone chan struct{}
}

type Option func(*Resolver)

// WithRandom sets the source used for generic replies.
func WithRandom(rnd quickaction.Random) Option {
	return func(r *Resolver) {
		r.rnd = rnd
	}
}

// WithLoadTimeout bounds the asynchronous knowledge load. Zero means no limit.
func WithLoadTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.loadTimeout = d
	}
}

func New(actions *quickaction.Registry, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		actions: actions,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		r.rnd = quickaction.NewRandom(0)
	}
	if r.actions == nil {
		r.actions = quickaction.NewDefaultRegistry(quickaction.Options{Random: r.rnd})
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// SetBase publishes base for matching and marks the resolver ready.
func (r *Resolver) SetBase(base *knowledge.Base) {
	if base == nil {
		base = knowledge.Empty()
	}
	r.state.Store(&loaded{base: base, engine: match.NewEngine(base)})
}

// Base returns the published knowledge base, or nil before loading completes.
func (r *Resolver) Base() *knowledge.Base {
	if s := r.state.Load(); s != nil {
		return s.base
	}
	return nil
}

// Pairs returns the number of conversation pairs available for matching.
func (r *Resolver) Pairs() int {
	return r.Base().Len()
}

func (r *Resolver) Ready() bool {
	return r.state.Load() != nil
}

// LoadAsync loads src in the background. A failed load publishes an empty
// base. The returned channel is closed once the resolver is ready. Only the
// first call starts a load; later calls return the same channel.
func (r *Resolver) LoadAsync(ctx context.Context, src knowledge.Source) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadDone != nil {
		return r.loadDone
	}

	var cancel context.CancelFunc
	if r.loadTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.loadTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	r.cancel = cancel
	r.loadDone = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		defer cancel()

		start := time.Now()
		base, err := knowledge.Load(ctx, src)
		if err != nil {
			r.logger.Error("Failed to load knowledge base, continuing with an empty one",
				zap.Error(err),
				zap.String("source", src.String()))
			base = knowledge.Empty()
		} else {
			r.logger.Info("Knowledge base loaded",
				zap.String("source", src.String()),
				zap.Int("categories", len(base.Categories())),
				zap.Int("pairs", base.Len()),
				zap.Duration("elapsed", time.Since(start)))
		}
		r.SetBase(base)
	}(r.loadDone)

	return r.loadDone
}

// Close cancels an in-flight load and waits for it to finish.
func (r *Resolver) Close() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.loadDone
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return nil
}

// Resolve returns the reply text for raw input. It never returns an empty string.
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	return r.ResolveReply(ctx, raw).Text
}

// ResolveReply is Resolve with the step that answered. Panics and handler
// failures are turned into ErrorResponse.
func (r *Resolver) ResolveReply(ctx context.Context, raw string) (reply models.Reply) {
	requestID := uuid.NewString()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Recovered from panic while resolving input",
				zap.String("request_id", requestID),
				zap.String("panic", fmt.Sprint(rec)))
			reply = models.Reply{Text: ErrorResponse, Intent: models.IntentError}
		}
	}()

	reply = r.resolve(ctx, raw)
	if reply.Text == "" {
		reply = models.Reply{Text: ErrorResponse, Intent: models.IntentError}
	}

	r.logger.Debug("Resolved input",
		zap.String("request_id", requestID),
		zap.String("intent", string(reply.Intent)),
		zap.String("action", reply.Action),
		zap.Int("input_length", len(raw)))
	return reply
}

func (r *Resolver) resolve(ctx context.Context, raw string) models.Reply {
	state := r.state.Load()
	if state == nil {
		return models.Reply{Text: LoadingResponse, Intent: models.IntentLoading}
	}

	input := match.Normalize(raw)

	if action, ok := r.actions.Match(input); ok {
		text, err := action.Handler(ctx)
		if err != nil {
			r.logger.Error("Quick action failed",
				zap.Error(err),
				zap.String("action", action.Name))
			return models.Reply{Text: ErrorResponse, Intent: models.IntentError, Action: action.Name}
		}
		return models.Reply{Text: text, Intent: models.IntentQuickAction, Action: action.Name}
	}

	if expression.IsExpression(raw) {
		return models.Reply{Text: expression.Describe(raw), Intent: models.IntentExpression}
	}

	if text, ok := state.engine.Exact(input); ok {
		return models.Reply{Text: text, Intent: models.IntentExactMatch, Score: 1}
	}

	if best, ok := state.engine.FuzzyCandidate(input); ok {
		return models.Reply{Text: best.Response, Intent: models.IntentFuzzyMatch, Score: best.Score}
	}

	return models.Reply{Text: quickaction.Pick(r.rnd, GenericResponses), Intent: models.IntentGeneric}
}
