package planner

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"

	"github.com/wayline/wayline/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest rejects malformed trip requests before any provider call
// is issued. Unknown comfort tiers are an error, never defaulted.
func ValidateRequest(req models.TripRequest) error {
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := models.ParseComfortTier(req.ComfortTier); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.EndDate.Before(req.StartDate) {
		return httperror.NewHTTPError(http.StatusBadRequest, "end_date must not precede start_date")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate.Before(today) {
		return httperror.NewHTTPError(http.StatusBadRequest, "start_date must be today or later")
	}

	return nil
}
