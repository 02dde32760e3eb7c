package llm

import (
	"context"
	"fmt"

	"github.com/intelliconnect/insightd/internal/analysis"
	"github.com/intelliconnect/insightd/internal/config"
)

// Request carries one document question to a Responder.
type Request struct {
	Text     string
	Question string
	FileName string
	FileType string
}

// Responder answers a question about extracted document text.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
	Available() bool
}

// heuristicResponder answers locally via the rule-table analyzer. It is the
// fallback when no hosted model is configured and never fails.
type heuristicResponder struct {
	analyzer *analysis.Analyzer
}

func (h *heuristicResponder) Respond(_ context.Context, req Request) (string, error) {
	rep := h.analyzer.Analyze(req.Text, req.Question, req.FileName, req.FileType)
	return rep.Markdown, nil
}

func (h *heuristicResponder) Available() bool { return true }

// disabledResponder rejects every request. Used when the operator turned
// answering off entirely.
type disabledResponder struct{}

func (disabledResponder) Respond(context.Context, Request) (string, error) {
	return "", fmt.Errorf("llm provider is disabled")
}

func (disabledResponder) Available() bool { return false }

// NewResponder selects the provider for the configured mode.
func NewResponder(cfg config.LLMConfig, analyzer *analysis.Analyzer) (Responder, error) {
	switch cfg.Provider {
	case "openai":
		return NewClient(cfg)
	case "heuristic", "":
		return &heuristicResponder{analyzer: analyzer}, nil
	case "disabled":
		return disabledResponder{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NewHeuristicResponder exposes the local analyzer path directly, for routes
// that must never call an external service.
func NewHeuristicResponder(analyzer *analysis.Analyzer) Responder {
	return &heuristicResponder{analyzer: analyzer}
}
