package providers

import (
	"errors"
	"fmt"

	"github.com/wayline/wayline/pkg/models"
)

// ProviderError wraps a failed provider call with enough detail for the
// fetcher to decide between retrying and falling back.
type ProviderError struct {
	Provider  string
	Category  models.Category
	Transient bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s (%s): %v", e.Provider, e.Category, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewTransientError marks a failure worth retrying (timeouts, 5xx, conn reset).
func NewTransientError(provider string, cat models.Category, err error) *ProviderError {
	return &ProviderError{Provider: provider, Category: cat, Transient: true, Err: err}
}

// NewPermanentError marks a failure retrying cannot fix (4xx, bad payload).
func NewPermanentError(provider string, cat models.Category, err error) *ProviderError {
	return &ProviderError{Provider: provider, Category: cat, Transient: false, Err: err}
}

// IsTransient reports whether err is a provider failure worth retrying.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}
