// Package api provides the HTTP surface of insightd: document extraction
// and analysis routes, dashboard sample data, preferences, health, and
// metrics.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/intelliconnect/insightd/internal/analysis"
	"github.com/intelliconnect/insightd/internal/config"
	"github.com/intelliconnect/insightd/internal/dashboard"
	"github.com/intelliconnect/insightd/internal/extract"
	"github.com/intelliconnect/insightd/internal/llm"
	"github.com/intelliconnect/insightd/internal/logging"
	"github.com/intelliconnect/insightd/internal/prefs"
)

// Server hosts the insightd HTTP API.
type Server struct {
	echo    *echo.Echo
	logger  *logging.Logger
	cfg     config.ServerConfig
	metrics *Metrics

	pdf       *extract.PDFExtractor
	csv       *extract.CSVExtractor
	excel     *extract.ExcelExtractor
	slides    *extract.Chain
	analyzer  *analysis.Analyzer
	responder llm.Responder
	prefs     prefs.Repository
	dash      dashboard.Provider
}

// Deps bundles the server's collaborators.
type Deps struct {
	Logger    *logging.Logger
	Config    config.ServerConfig
	Extract   config.ExtractConfig
	Responder llm.Responder
	Prefs     prefs.Repository
	Dashboard dashboard.Provider
}

// NewServer wires routes and middleware. The preferences repository and
// dashboard provider are required; the responder falls back to the local
// analyzer when nil.
func NewServer(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Prefs == nil {
		return nil, fmt.Errorf("preferences repository is required")
	}
	if deps.Dashboard == nil {
		deps.Dashboard = dashboard.NewStaticProvider()
	}

	analyzer := analysis.New()
	if deps.Responder == nil {
		deps.Responder = llm.NewHeuristicResponder(analyzer)
	}

	slides, err := extract.NewPowerPointChain(deps.Logger, deps.Extract.MinASCIIRun)
	if err != nil {
		return nil, fmt.Errorf("build powerpoint chain: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	s := &Server{
		echo:      e,
		logger:    deps.Logger,
		cfg:       deps.Config,
		metrics:   NewMetrics(),
		pdf:       extract.NewPDFExtractor(deps.Logger),
		csv:       extract.NewCSVExtractor(deps.Extract.CSVSampleRows),
		excel:     extract.NewExcelExtractor(deps.Extract.ExcelPreviewRows),
		slides:    slides,
		analyzer:  analyzer,
		responder: deps.Responder,
		prefs:     deps.Prefs,
		dash:      deps.Dashboard,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(s.metrics.Middleware())
	if deps.Config.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%d", deps.Config.MaxUploadBytes)))
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.WithRequestID(c.Request().Context(), reqID)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			s.logger.Info(ctx, "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", s.metrics.Handler())

	api := s.echo.Group("/api")
	api.GET("/test", s.handleTest)

	an := api.Group("/analysis")
	an.POST("/extract-pdf", s.handleExtractPDF)
	an.POST("/extract-csv", s.handleExtractCSV)
	an.POST("/extract-excel", s.handleExtractExcel)
	an.POST("/extract-powerpoint", s.handleExtractPowerPoint)
	an.POST("/document", s.handleAnalyzeDocument)
	// Older clients post to /document-new; same handler, same contract.
	an.POST("/document-new", s.handleAnalyzeDocument)

	dash := api.Group("/dashboard")
	dash.GET("/projects", s.handleProjects)
	dash.GET("/kpis", s.handleKPIs)
	dash.GET("/milestones", s.handleMilestones)
	dash.GET("/risks", s.handleRisks)
	dash.GET("/resources", s.handleResources)

	pr := api.Group("/preferences")
	pr.GET("", s.handleListPreferences)
	pr.GET("/:key", s.handleGetPreference)
	pr.PUT("/:key", s.handleSetPreference)
	pr.DELETE("/:key", s.handleDeletePreference)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start begins serving on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
