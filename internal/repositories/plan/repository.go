// Package plan persists built trip plans.
package plan

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/wayline/wayline/pkg/database"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/tracing"
)

// Record is one persisted plan row.
type Record struct {
	ID          string                                       `db:"id" json:"id"`
	RequestID   string                                       `db:"request_id" json:"request_id"`
	Origin      string                                       `db:"origin" json:"origin"`
	Destination string                                       `db:"destination" json:"destination"`
	Viable      bool                                         `db:"viable" json:"viable"`
	Request     database.JSONB[models.TripRequest]           `db:"request" json:"request"`
	Itinerary   database.JSONB[models.ConsolidatedItinerary] `db:"itinerary" json:"itinerary"`
	CreatedAt   time.Time                                    `db:"created_at" json:"created_at"`
}

// Repository handles plan persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new plan repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a built plan and returns the persisted record
func (r *Repository) Create(ctx context.Context, req models.TripRequest, itinerary models.ConsolidatedItinerary) (*Record, error) {
	ctx, span := tracing.StartSpan(ctx, "plan.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":      "Create",
		"request_id":  req.ID,
		"destination": req.Destination,
	})

	record := &Record{
		ID:          uuid.New().String(),
		RequestID:   req.ID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Viable:      itinerary.Viable,
		Request:     database.JSONB[models.TripRequest]{Data: req},
		Itinerary:   database.JSONB[models.ConsolidatedItinerary]{Data: itinerary},
		CreatedAt:   time.Now().UTC(),
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("plans")
	sb.Cols("id", "request_id", "origin", "destination", "viable", "request", "itinerary", "created_at")
	sb.Values(record.ID, record.RequestID, record.Origin, record.Destination, record.Viable, record.Request, record.Itinerary, record.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create plan")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save plan")
	}

	log.WithFields(map[string]any{"id": record.ID}).Info("Created plan")
	return record, nil
}

// Get retrieves a plan by ID
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	ctx, span := tracing.StartSpan(ctx, "plan.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "request_id", "origin", "destination", "viable", "request", "itinerary", "created_at")
	sb.From("plans")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var record Record
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "plan %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get plan")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get plan")
	}

	return &record, nil
}

// ListRecent retrieves the most recently built plans
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	ctx, span := tracing.StartSpan(ctx, "plan.Repository.ListRecent")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 20
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "request_id", "origin", "destination", "viable", "request", "itinerary", "created_at")
	sb.From("plans")
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list plans")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list plans")
	}

	return records, nil
}
