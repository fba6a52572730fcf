// Package providers defines the upstream search provider interface and its
// HTTP and synthetic implementations.
package providers

import (
	"context"

	"github.com/wayline/wayline/pkg/models"
)

// Client is a single upstream search provider for one category.
type Client interface {
	// ID identifies the provider in provenance output.
	ID() string

	// Category is the category this provider serves.
	Category() models.Category

	// Search fetches raw candidates for the criteria. Implementations honor
	// context cancellation and return a ProviderError on failure.
	Search(ctx context.Context, criteria models.SearchCriteria) (*models.ProviderResult, error)
}

// Registry maps categories to their configured provider.
type Registry struct {
	clients map[models.Category]Client
}

// NewRegistry creates a registry from the given providers. A later provider
// for the same category replaces the earlier one.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[models.Category]Client)}
	for _, c := range clients {
		r.clients[c.Category()] = c
	}
	return r
}

// For returns the provider for a category, nil when none is registered.
func (r *Registry) For(cat models.Category) Client {
	return r.clients[cat]
}

// Categories returns every category with a registered provider.
func (r *Registry) Categories() []models.Category {
	cats := make([]models.Category, 0, len(r.clients))
	for cat := range r.clients {
		cats = append(cats, cat)
	}
	return cats
}
