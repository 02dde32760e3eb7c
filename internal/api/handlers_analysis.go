package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/intelliconnect/insightd/internal/analysis"
	"github.com/intelliconnect/insightd/internal/llm"
)

// AnalyzeRequest is the body of POST /api/analysis/document. Question and
// Message are aliases; Question wins when both are set.
type AnalyzeRequest struct {
	ExtractedText string `json:"extractedText"`
	Question      string `json:"question"`
	Message       string `json:"message"`
	FileName      string `json:"fileName"`
	FileType      string `json:"fileType"`
}

// AnalyzeMetadata describes the analyzed document.
type AnalyzeMetadata struct {
	AnalysisID    string `json:"analysisId"`
	FileName      string `json:"fileName"`
	FileType      string `json:"fileType"`
	ContentLength int    `json:"contentLength"`
	Timestamp     string `json:"timestamp"`
}

// AnalyzeResponse is the canonical analysis response shape.
type AnalyzeResponse struct {
	Reply       string          `json:"reply"`
	Suggestions []string        `json:"suggestions"`
	Metadata    AnalyzeMetadata `json:"metadata"`
}

func (s *Server) handleAnalyzeDocument(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid request body")
	}
	if strings.TrimSpace(req.ExtractedText) == "" {
		return NewBadRequestError("extractedText is required")
	}

	question := req.Question
	if question == "" {
		question = req.Message
	}

	reply, err := s.responder.Respond(c.Request().Context(), llm.Request{
		Text:     req.ExtractedText,
		Question: question,
		FileName: req.FileName,
		FileType: req.FileType,
	})
	if err != nil {
		s.metrics.ObserveAnalysis(providerName(s.responder), "error")
		return NewInternalError("Analysis failed", err)
	}
	s.metrics.ObserveAnalysis(providerName(s.responder), "ok")

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Reply:       reply,
		Suggestions: analysis.SuggestionsFor(req.FileType),
		Metadata: AnalyzeMetadata{
			AnalysisID:    uuid.NewString(),
			FileName:      req.FileName,
			FileType:      req.FileType,
			ContentLength: len(req.ExtractedText),
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// TestResponse is the body of GET /api/test.
type TestResponse struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider"`
	Reply    string `json:"reply,omitempty"`
	Error    string `json:"error,omitempty"`
}

// pinger is implemented by responders that can probe their upstream.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleTest(c echo.Context) error {
	name := providerName(s.responder)

	if !s.responder.Available() {
		return c.JSON(http.StatusInternalServerError, TestResponse{
			Success:  false,
			Provider: name,
			Error:    "no answering provider is configured",
		})
	}

	if p, ok := s.responder.(pinger); ok {
		if err := p.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, TestResponse{
				Success:  false,
				Provider: name,
				Error:    err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, TestResponse{
		Success:  true,
		Provider: name,
		Reply:    "ok",
	})
}

func providerName(r llm.Responder) string {
	if _, ok := r.(pinger); ok {
		return "openai"
	}
	if r.Available() {
		return "heuristic"
	}
	return "disabled"
}
