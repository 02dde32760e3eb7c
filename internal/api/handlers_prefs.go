package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/intelliconnect/insightd/internal/prefs"
)

func (s *Server) handleListPreferences(c echo.Context) error {
	all, err := s.prefs.List(c.Request().Context())
	if err != nil {
		return NewInternalError("Could not list preferences", err)
	}
	if all == nil {
		all = []prefs.Preference{}
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) handleGetPreference(c echo.Context) error {
	key := c.Param("key")
	p, err := s.prefs.Get(c.Request().Context(), key)
	if errors.Is(err, prefs.ErrNotFound) {
		return NewNotFoundError("preference", key)
	}
	if err != nil {
		return NewInternalError("Could not read preference", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleSetPreference(c echo.Context) error {
	key := c.Param("key")
	if err := prefs.ValidateKey(key); err != nil {
		return NewBadRequestError(err.Error())
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("Could not read request body")
	}
	value := json.RawMessage(body)
	if err := prefs.ValidateValue(value); err != nil {
		return NewBadRequestError(err.Error())
	}

	if err := s.prefs.Set(c.Request().Context(), key, value); err != nil {
		return NewInternalError("Could not save preference", err)
	}

	p, err := s.prefs.Get(c.Request().Context(), key)
	if err != nil {
		return NewInternalError("Could not read saved preference", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeletePreference(c echo.Context) error {
	key := c.Param("key")
	err := s.prefs.Delete(c.Request().Context(), key)
	if errors.Is(err, prefs.ErrNotFound) {
		return NewNotFoundError("preference", key)
	}
	if err != nil {
		return NewInternalError("Could not delete preference", err)
	}
	return c.NoContent(http.StatusNoContent)
}
