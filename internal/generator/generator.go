// Package generator runs the inspect, structure and assemble stages that turn a
// template and source text into a finished deck.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"decksmith/internal/deck"
	"decksmith/internal/llm"
	"decksmith/internal/metrics"
	"decksmith/internal/structure"
)

// Stage errors. Every error returned by Generate wraps exactly one of them.
var (
	ErrTemplateAnalysis = errors.New("template analysis failed")
	ErrStructure        = errors.New("structure generation failed")
	ErrAssembly         = errors.New("deck assembly failed")
)

// Request is one generation request.
type Request struct {
	Template []byte
	Text     string
	Guidance string
	APIKey   string
}

// Result is a generated deck.
type Result struct {
	ID      uuid.UUID
	Deck    []byte
	Layouts []string
	Slides  int
	Skipped []string
}

// Service generates decks. It holds no per-request state.
type Service struct {
	llm       llm.Factory
	requester *structure.Requester
	assembler *deck.Assembler
	log       *slog.Logger
}

// New returns a Service.
func New(factory llm.Factory, requester *structure.Requester, assembler *deck.Assembler, log *slog.Logger) *Service {
	return &Service{llm: factory, requester: requester, assembler: assembler, log: log}
}

// Generate inspects the template, asks the model for an outline and assembles
// the deck. Any stage failure discards the whole result.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	res := Result{ID: uuid.New()}
	log := s.log.With("generation_id", res.ID)

	start := time.Now()
	layouts, err := deck.Inspect(req.Template)
	metrics.ObserveStage(metrics.StageInspect, start)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTemplateAnalysis, err)
	}
	res.Layouts = layouts
	log.Info("template analyzed", "layouts", len(layouts))

	start = time.Now()
	outline, err := s.outline(ctx, req, layouts)
	metrics.ObserveStage(metrics.StageStructure, start)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStructure, err)
	}
	log.Info("structure generated", "slides", len(outline.Slides))

	start = time.Now()
	out, report, err := s.assembler.Assemble(req.Template, outline)
	metrics.ObserveStage(metrics.StageAssemble, start)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrAssembly, err)
	}
	metrics.SlidesAdded.Add(float64(report.Added))
	metrics.SlidesSkipped.Add(float64(len(report.Skipped)))

	res.Deck = out
	res.Slides = report.Added
	res.Skipped = report.Skipped
	log.Info("deck assembled", "slides", report.Added, "skipped", len(report.Skipped), "bytes", len(out))
	return res, nil
}

func (s *Service) outline(ctx context.Context, req Request, layouts []string) (structure.Structure, error) {
	client, err := s.llm.New(ctx, req.APIKey)
	if err != nil {
		return structure.Structure{}, fmt.Errorf("create model client: %w", err)
	}
	return s.requester.Request(ctx, client, structure.Request{
		Text:     req.Text,
		Guidance: req.Guidance,
		Layouts:  layouts,
	})
}
