// Package sidecar runs spaCy and WordNet in resident Python workers and
// exposes them as an nlp.Engine.
package sidecar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/nlp"
)

var (
	// ErrClosed is returned for requests made after Close.
	ErrClosed = errors.New("nlp sidecar closed")

	// ErrUnavailable is returned when no worker is running.
	ErrUnavailable = errors.New("nlp sidecar unavailable")
)

// Config controls the worker pool and its Python environment.
type Config struct {
	Dir       string // holds the venv, the worker script and NLTK data
	Python    string // interpreter used to create the venv
	Model     string // spaCy model package
	Workers   int
	QueueSize int
}

// DefaultConfig returns the pool defaults.
func DefaultConfig() Config {
	dir := ".textquiz"
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "textquiz")
	}
	return Config{
		Dir:       dir,
		Python:    "python3",
		Model:     "en_core_web_sm",
		Workers:   2,
		QueueSize: 100,
	}
}

type spawnFunc func(ctx context.Context, id int) (*worker, error)

type task struct {
	ctx    context.Context
	req    request
	result chan<- taskResult
}

type taskResult struct {
	reply *reply
	err   error
}

// Pool is a fixed set of Python workers fed from one task queue.
type Pool struct {
	cfg     Config
	logger  *logging.Logger
	spawn   spawnFunc
	process bool

	mu     sync.RWMutex
	closed bool
	tasks  chan task
	wg     sync.WaitGroup
	alive  atomic.Int32
	seq    atomic.Uint64
}

// New creates a pool backed by real Python processes. Call Start before use.
func New(cfg Config, logger *logging.Logger) *Pool {
	p := newPool(cfg, logger, nil)
	p.spawn = p.spawnProcess
	p.process = true
	return p
}

func newPool(cfg Config, logger *logging.Logger, spawn spawnFunc) *Pool {
	def := DefaultConfig()
	if cfg.Dir == "" {
		cfg.Dir = def.Dir
	}
	if cfg.Python == "" {
		cfg.Python = def.Python
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Pool{
		cfg:    cfg,
		logger: logger,
		spawn:  spawn,
		tasks:  make(chan task, cfg.QueueSize),
	}
}

// Start prepares the Python environment and launches every worker. It
// returns once all workers have reported ready.
func (p *Pool) Start(ctx context.Context) error {
	if p.process {
		if err := p.setupEnvironment(ctx); err != nil {
			return fmt.Errorf("setup python environment: %w", err)
		}
	}

	workers := make([]*worker, 0, p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		w, err := p.spawn(ctx, i)
		if err != nil {
			for _, started := range workers {
				_ = started.close()
			}
			return fmt.Errorf("start nlp worker %d: %w", i, err)
		}
		workers = append(workers, w)
	}

	p.alive.Store(int32(len(workers)))
	for _, w := range workers {
		p.wg.Add(1)
		go p.run(w)
	}
	p.logger.Info("nlp sidecar: %d workers ready (model %s)", len(workers), p.cfg.Model)
	return nil
}

func (p *Pool) run(w *worker) {
	defer p.wg.Done()

	for t := range p.tasks {
		if err := t.ctx.Err(); err != nil {
			t.result <- taskResult{err: err}
			continue
		}

		rep, err := w.call(t.req)
		t.result <- taskResult{reply: rep, err: err}
		if err == nil || !errors.Is(err, errBroken) {
			continue
		}

		p.logger.Error("nlp worker %d: %v; restarting", w.id, err)
		_ = w.close()
		w, err = p.spawn(context.Background(), w.id)
		if err != nil {
			p.logger.Error("nlp worker restart failed: %v", err)
			if p.alive.Add(-1) == 0 {
				p.drain()
			}
			return
		}
	}
	_ = w.close()
}

// drain fails queued tasks once the last worker is gone.
func (p *Pool) drain() {
	for t := range p.tasks {
		t.result <- taskResult{err: ErrUnavailable}
	}
}

func (p *Pool) do(ctx context.Context, req request) (*reply, error) {
	result := make(chan taskResult, 1)

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrClosed
	}
	if p.alive.Load() == 0 {
		p.mu.RUnlock()
		return nil, ErrUnavailable
	}
	req.ID = strconv.FormatUint(p.seq.Add(1), 10)
	select {
	case p.tasks <- task{ctx: ctx, req: req, result: result}:
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}
	p.mu.RUnlock()

	select {
	case r := <-result:
		return r.reply, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Annotate runs the spaCy pipeline over text.
func (p *Pool) Annotate(ctx context.Context, text string) (*nlp.Document, error) {
	rep, err := p.do(ctx, request{Op: opAnnotate, Text: text})
	if err != nil {
		return nil, err
	}
	if rep.Document == nil {
		return nil, fmt.Errorf("nlp worker annotate: reply has no document")
	}
	return rep.Document, nil
}

// LookupSenses returns the WordNet synsets of word in category.
func (p *Pool) LookupSenses(ctx context.Context, word string, category nlp.Category) ([]nlp.Sense, error) {
	rep, err := p.do(ctx, request{Op: opSenses, Word: word, POS: string(category)})
	if err != nil {
		return nil, err
	}
	return rep.Senses, nil
}

// Ping annotates a short text to prove a worker answers.
func (p *Pool) Ping(ctx context.Context) error {
	_, err := p.Annotate(ctx, "Ping.")
	return err
}

// Close stops accepting work, lets queued tasks finish and stops every
// worker process.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

var _ nlp.Engine = (*Pool)(nil)
