package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/pkg/models"
)

func validRequest() models.TripRequest {
	start := time.Now().UTC().AddDate(0, 1, 0)
	return models.TripRequest{
		Origin:         "JFK",
		Destination:    "LAX",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 4),
		PassengerCount: 2,
		TotalBudget:    3000,
		ComfortTier:    "standard",
	}
}

func TestValidateRequestAccepts(t *testing.T) {
	assert.NoError(t, ValidateRequest(validRequest()))
}

func TestValidateRequestRequiredFields(t *testing.T) {
	req := validRequest()
	req.Destination = ""
	assert.Error(t, ValidateRequest(req))

	req = validRequest()
	req.PassengerCount = 0
	assert.Error(t, ValidateRequest(req))

	req = validRequest()
	req.TotalBudget = -100
	assert.Error(t, ValidateRequest(req))
}

func TestValidateRequestRejectsUnknownTier(t *testing.T) {
	req := validRequest()
	req.ComfortTier = "platinum"

	err := ValidateRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platinum")
}

func TestValidateRequestRejectsInvertedDates(t *testing.T) {
	req := validRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	assert.Error(t, ValidateRequest(req))
}

func TestValidateRequestRejectsPastStart(t *testing.T) {
	req := validRequest()
	req.StartDate = time.Now().UTC().AddDate(0, 0, -2)
	req.EndDate = req.StartDate.AddDate(0, 0, 4)
	assert.Error(t, ValidateRequest(req))
}
