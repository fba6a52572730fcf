package consolidate

import (
	"time"

	"github.com/wayline/wayline/pkg/models"
)

// rainAdvisoryThreshold is the precipitation chance above which a day gets a
// weather note.
const rainAdvisoryThreshold = 70

// buildSchedule lays the selected activities out across the trip dates and
// attaches the matching forecast day. Activities keep the date they were
// normalized with; dateless stragglers round-robin across the trip.
func buildSchedule(req models.TripRequest, activities []models.ActivityCandidate, weather []models.WeatherDay) []models.DaySchedule {
	dates := req.Dates()
	if len(dates) == 0 {
		return nil
	}

	byDate := make(map[string][]models.ActivityCandidate)
	var undated []models.ActivityCandidate
	for _, a := range activities {
		if a.Date.IsZero() {
			undated = append(undated, a)
			continue
		}
		key := dayKey(a.Date)
		byDate[key] = append(byDate[key], a)
	}

	for i, a := range undated {
		key := dayKey(dates[i%len(dates)])
		byDate[key] = append(byDate[key], a)
	}

	forecast := make(map[string]models.WeatherDay, len(weather))
	for _, w := range weather {
		forecast[dayKey(w.Date)] = w
	}

	schedule := make([]models.DaySchedule, 0, len(dates))
	for _, date := range dates {
		key := dayKey(date)
		day := models.DaySchedule{
			Date:       date,
			Activities: byDate[key],
		}

		if w, ok := forecast[key]; ok {
			day.Weather = &w
			if w.PrecipChance >= rainAdvisoryThreshold {
				day.Note = "High chance of rain, favor indoor options"
			}
		}

		schedule = append(schedule, day)
	}

	return schedule
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
