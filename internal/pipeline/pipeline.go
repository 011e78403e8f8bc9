// Package pipeline runs tokenization, estimation and stabilisation over a corpus.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/f3rmion/harakat/internal/markov"
	"github.com/f3rmion/harakat/internal/phonetic"
)

// Config tunes a pipeline run.
type Config struct {
	Inventory     *phonetic.Inventory // nil selects the default inventory
	Tolerance     float64
	MaxIterations int
}

// DefaultConfig returns the standard stabilisation parameters.
func DefaultConfig() Config {
	return Config{
		Tolerance:     markov.DefaultTolerance,
		MaxIterations: markov.DefaultMaxIterations,
	}
}

// Result holds everything a run produced.
type Result struct {
	Analyses   []phonetic.Analysis
	Model      *markov.Model
	Stationary *markov.Stationary
	Duration   time.Duration
}

// Pipeline sequences the three stages over a word list.
type Pipeline struct {
	log       *slog.Logger
	cfg       Config
	tokenizer *phonetic.Tokenizer
}

// New creates a new Pipeline.
func New(log *slog.Logger, cfg Config) *Pipeline {
	return &Pipeline{
		log:       log,
		cfg:       cfg,
		tokenizer: phonetic.NewTokenizer(cfg.Inventory),
	}
}

// Tokenizer returns the tokenizer the pipeline segments with.
func (p *Pipeline) Tokenizer() *phonetic.Tokenizer {
	return p.tokenizer
}

// Run segments every word, estimates the transition matrix and iterates it
// to its limit. Non-convergence is logged as a warning and does not fail the run.
func (p *Pipeline) Run(words []string) *Result {
	start := time.Now()

	analyses := p.tokenizer.SegmentAll(words)
	p.log.Debug("words segmented", "words", len(analyses))

	model := markov.Estimate(analyses)
	p.log.Info("transition matrix estimated",
		"states", len(model.States),
		"transitions", model.TransitionCount,
	)

	stationary := markov.StabilizeModel(model, p.cfg.Tolerance, p.cfg.MaxIterations)
	if stationary.Converged {
		p.log.Info("stationary matrix converged", "iterations", stationary.Iterations)
	} else {
		p.log.Warn("stationary matrix did not converge",
			"iterations", stationary.Iterations,
			"delta", stationary.Delta,
			"tolerance", p.cfg.Tolerance,
		)
	}

	return &Result{
		Analyses:   analyses,
		Model:      model,
		Stationary: stationary,
		Duration:   time.Since(start),
	}
}
