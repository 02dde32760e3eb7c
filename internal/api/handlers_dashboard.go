package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dash.Projects())
}

func (s *Server) handleKPIs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dash.KPIs())
}

func (s *Server) handleMilestones(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dash.Milestones())
}

func (s *Server) handleRisks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dash.Risks())
}

func (s *Server) handleResources(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dash.Resources())
}
