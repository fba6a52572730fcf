// Package plan exposes the trip planning endpoints.
package plan

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/wayline/wayline/pkg/consolidate"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/planner"
)

// BuildRequest is the POST body for a plan build.
type BuildRequest struct {
	models.TripRequest
	Personalization map[string]float64 `json:"personalization,omitempty"`
}

// Register registers plan routes
func Register(g *echo.Group) {
	g.POST("", BuildPlan)
	g.GET("", ListPlans)
	g.GET("/:id", GetPlan)
}

// BuildPlan builds a consolidated itinerary for a trip request
func BuildPlan(c echo.Context) error {
	ctx := c.Request().Context()

	var req BuildRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, service, err := ectoinject.GetContext[*planner.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	itinerary, err := service.BuildPlan(ctx, req.TripRequest, consolidate.Personalization(req.Personalization))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, itinerary)
}

// GetPlan gets a stored plan by ID
func GetPlan(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	ctx, service, err := ectoinject.GetContext[*planner.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	record, err := service.GetPlan(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// ListPlans lists the most recently built plans
func ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	ctx, service, err := ectoinject.GetContext[*planner.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	records, err := service.ListRecentPlans(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}
