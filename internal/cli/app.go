package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xaenox/jarvis-bot/internal/knowledge"
	"github.com/xaenox/jarvis-bot/internal/quickaction"
	"github.com/xaenox/jarvis-bot/internal/resolver"
	"github.com/xaenox/jarvis-bot/internal/storage"
	"github.com/xaenox/jarvis-bot/pkg/config"
	"go.uber.org/zap"
)

// App carries the configuration and logger shared by all commands. It is
// populated by the root command before any subcommand runs.
type App struct {
	ConfigPath string
	Config     *config.Config
	Logger     *zap.Logger

	db *sql.DB
}

// NewLogger builds a zap logger from the log section of the config.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = level

	return zcfg.Build()
}

// Source returns the configured knowledge source. SQL sources have their
// schema created on first use.
func (a *App) Source(ctx context.Context) (knowledge.Source, error) {
	kc := a.Config.Knowledge
	if kc.Driver == "" {
		return knowledge.NewSource(kc.Source, a.Logger), nil
	}

	src, err := a.sqlSource(ctx)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (a *App) sqlSource(ctx context.Context) (*storage.SQLSource, error) {
	kc := a.Config.Knowledge
	if a.db == nil {
		db, err := storage.Open(storage.DatabaseConfig{Driver: kc.Driver, DSN: kc.DSN})
		if err != nil {
			return nil, err
		}
		a.db = db
	}

	src := storage.NewSQLSource(a.db, kc.Driver, a.Logger)
	if err := src.Migrate(ctx); err != nil {
		return nil, err
	}
	return src, nil
}

// NewResolver wires the quick actions, news provider and random source
// described by the config.
func (a *App) NewResolver() *resolver.Resolver {
	cfg := a.Config
	rnd := quickaction.NewRandom(cfg.Random.Seed)

	var news quickaction.NewsProvider = quickaction.NewStaticNews(quickaction.Headlines, rnd)
	if cfg.News.Provider == config.NewsOpenAI {
		news = quickaction.NewGPTNews(quickaction.GPTNewsConfig{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		}, news, a.Logger)
	}

	registry := quickaction.NewDefaultRegistry(quickaction.Options{
		Random: rnd,
		News:   news,
	})

	return resolver.New(registry, a.Logger,
		resolver.WithRandom(rnd),
		resolver.WithLoadTimeout(cfg.Knowledge.LoadTimeout),
	)
}

// StartResolver creates a resolver and begins loading the knowledge base in
// the background. A source that cannot even be opened leaves the resolver
// with an empty base.
func (a *App) StartResolver(ctx context.Context) (*resolver.Resolver, <-chan struct{}) {
	r := a.NewResolver()

	src, err := a.Source(ctx)
	if err != nil {
		a.Logger.Error("Failed to open knowledge source, continuing with an empty one", zap.Error(err))
		r.SetBase(knowledge.Empty())
		done := make(chan struct{})
		close(done)
		return r, done
	}

	return r, r.LoadAsync(ctx, src)
}

func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Sync()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
