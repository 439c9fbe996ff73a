// Package app wires configuration, the NLP engine, the quiz generator,
// the study-notes service and the store into one value shared by the CLI
// and the HTTP service.
package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/textquiz/internal/config"
	"github.com/abhisek/textquiz/internal/llm"
	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/nlp"
	"github.com/abhisek/textquiz/internal/nlp/prose"
	"github.com/abhisek/textquiz/internal/nlp/sidecar"
	"github.com/abhisek/textquiz/internal/notes"
	"github.com/abhisek/textquiz/internal/quizgen"
	"github.com/abhisek/textquiz/internal/store"
)

const previewRunes = 120

// Options configures New. Engine and Provider override what Config would
// build; tests use them to avoid Python and network access.
type Options struct {
	Config   *config.Config
	DBPath   string
	Logger   *logging.Logger
	Rand     quizgen.Rand
	Engine   nlp.Engine
	Provider llm.Provider
}

// App holds the long-lived dependencies of one process.
type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Engine    nlp.Engine
	Generator *quizgen.Generator
	Notes     *notes.Service
	Store     *store.Store
}

// New opens the store, starts the NLP engine and builds the services.
// A missing LLM configuration is not an error: notes report
// notes.ErrNotConfigured instead.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		var err error
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	engine := opts.Engine
	if engine == nil {
		engine, err = NewEngine(ctx, cfg.NLP, logger)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	genOpts := []quizgen.Option{quizgen.WithLogger(logger)}
	if opts.Rand != nil {
		genOpts = append(genOpts, quizgen.WithRand(opts.Rand))
	}
	gen := quizgen.New(engine, engine, QuizConfig(cfg.Quiz), genOpts...)

	provider := opts.Provider
	if provider == nil {
		provider, err = llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
		if err != nil {
			logger.Info("LLM provider not configured: %v; study notes unavailable", err)
			provider = nil
		}
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Engine:    engine,
		Generator: gen,
		Notes:     notes.New(provider, cfg.LLM.MaxTokens),
		Store:     st,
	}, nil
}

// NewEngine starts the engine named by cfg.Engine.
func NewEngine(ctx context.Context, cfg config.NLPConfig, logger *logging.Logger) (nlp.Engine, error) {
	switch cfg.Engine {
	case config.EngineProse:
		engine, err := prose.Open(cfg.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("open prose engine: %w", err)
		}
		return engine, nil
	case config.EngineSpacy, "":
		pool := sidecar.New(sidecar.Config{
			Dir:     cfg.PythonDir,
			Python:  cfg.Python,
			Model:   cfg.SpacyModel,
			Workers: cfg.Workers,
		}, logger)
		if err := pool.Start(ctx); err != nil {
			return nil, fmt.Errorf("start spaCy sidecar: %w", err)
		}
		return pool, nil
	}
	return nil, fmt.Errorf("unknown NLP engine %q", cfg.Engine)
}

// QuizConfig applies the configurable quiz settings to the defaults.
func QuizConfig(cfg config.QuizConfig) quizgen.Config {
	qc := quizgen.DefaultConfig()
	qc.FalseProbability = cfg.FalseProbability
	return qc
}

// CreateQuiz generates a quiz and, when save is set, persists it. A
// persistence failure is logged and the quiz is still returned.
func (a *App) CreateQuiz(ctx context.Context, text string, numQuestions int, save bool) (quizgen.Quiz, *store.QuizRecord, error) {
	if numQuestions <= 0 {
		numQuestions = a.Config.Quiz.NumQuestions
	}
	quiz, err := a.Generator.CreateQuiz(ctx, text, numQuestions)
	if err != nil {
		return nil, nil, err
	}
	if !save {
		return quiz, nil, nil
	}

	rec := &store.QuizRecord{
		NumRequested: numQuestions,
		TextPreview:  Preview(text),
		Quiz:         quiz,
	}
	if err := a.Store.QuizRepo().Save(context.WithoutCancel(ctx), rec); err != nil {
		a.Logger.Error("save quiz: %v", err)
		return quiz, nil, nil
	}
	return quiz, rec, nil
}

// Close stops the engine and closes the store.
func (a *App) Close() error {
	engineErr := a.Engine.Close()
	storeErr := a.Store.Close()
	if engineErr != nil {
		return engineErr
	}
	return storeErr
}

// Preview collapses whitespace in text and shortens it for listings.
func Preview(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	r := []rune(s)
	return string(r[:previewRunes-1]) + "…"
}
