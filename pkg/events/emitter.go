// Package events emits plan lifecycle events consumed by downstream
// notification and analytics services.
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/kafka"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/tracing"
)

// Event types for the itinerary topic.
const (
	EventTypeItineraryBuilt    = "itinerary.built"
	EventTypeItineraryDegraded = "itinerary.degraded"
	EventTypeItineraryUnviable = "itinerary.unviable"
)

// Emitter publishes plan lifecycle events. A nil producer disables emission,
// so callers never need to branch on whether Kafka is configured.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitPlanBuilt publishes the outcome of a completed plan build. The event
// type reflects how the build went: clean, degraded (provider failures or
// fallbacks in provenance) or unviable.
func (e *Emitter) EmitPlanBuilt(ctx context.Context, planID string, itinerary *models.ConsolidatedItinerary) error {
	if e.producer == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPlanBuilt")
	defer span.End()

	eventType := EventTypeItineraryBuilt
	switch {
	case !itinerary.Viable:
		eventType = EventTypeItineraryUnviable
	case len(itinerary.Provenance.ProvidersFailed) > 0 || len(itinerary.Provenance.FallbackCategories) > 0 || itinerary.Provenance.IncompleteFlights:
		eventType = EventTypeItineraryDegraded
	}

	data, err := json.Marshal(itinerary.Provenance)
	if err != nil {
		return err
	}

	event := &kafka.ItineraryEvent{
		EventType:   eventType,
		PlanID:      planID,
		RequestID:   itinerary.RequestID,
		Destination: itinerary.Destination,
		Viable:      itinerary.Viable,
		Tiers:       len(itinerary.Tiers),
		Data:        data,
	}

	if err := e.producer.PublishItineraryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to emit %s event", eventType)
		return err
	}

	return nil
}
