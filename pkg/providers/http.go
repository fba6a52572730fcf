package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/httpclient"
	"github.com/wayline/wayline/pkg/models"
)

const dateFormat = "2006-01-02"

// HTTPProvider calls an upstream search API over HTTP. The response body is
// either a bare JSON array of candidate objects or an envelope with a
// "results" array; either way the candidates stay raw for the normalizer.
type HTTPProvider struct {
	id       string
	category models.Category
	baseURL  string
	apiKey   string
	client   *httpclient.Client
	logger   ectologger.Logger
}

// NewHTTPProvider creates an HTTP provider for one category
func NewHTTPProvider(id string, cat models.Category, baseURL, apiKey string, client *httpclient.Client, logger ectologger.Logger) *HTTPProvider {
	return &HTTPProvider{
		id:       id,
		category: cat,
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   client,
		logger:   logger,
	}
}

// ID implements Client.
func (p *HTTPProvider) ID() string { return p.id }

// Category implements Client.
func (p *HTTPProvider) Category() models.Category { return p.category }

// Search implements Client.
func (p *HTTPProvider) Search(ctx context.Context, criteria models.SearchCriteria) (*models.ProviderResult, error) {
	params := p.buildParams(criteria)

	headers := map[string]string{}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}

	resp, err := p.client.Get(ctx, p.baseURL, params, headers)
	if err != nil {
		// Includes timeouts and connection failures from the wrapped client.
		return nil, NewTransientError(p.id, p.category, err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewTransientError(p.id, p.category, fmt.Errorf("upstream returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, NewPermanentError(p.id, p.category, fmt.Errorf("upstream returned %d", resp.StatusCode))
	}

	candidates, err := parseCandidates(resp.Body)
	if err != nil {
		return nil, NewPermanentError(p.id, p.category, err)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"provider": p.id,
		"category": p.category,
		"count":    len(candidates),
	}).Debug("provider search completed")

	return &models.ProviderResult{
		Category:   p.category,
		Candidates: candidates,
		ProviderID: p.id,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func (p *HTTPProvider) buildParams(criteria models.SearchCriteria) url.Values {
	params := url.Values{}
	params.Set("destination", criteria.Destination)
	params.Set("date", criteria.Date.Format(dateFormat))

	if criteria.Origin != "" {
		params.Set("origin", criteria.Origin)
	}
	if !criteria.EndDate.IsZero() {
		params.Set("end_date", criteria.EndDate.Format(dateFormat))
	}
	if criteria.Passengers > 0 {
		params.Set("passengers", strconv.Itoa(criteria.Passengers))
	}
	if criteria.Direction != "" {
		params.Set("direction", string(criteria.Direction))
	}
	if criteria.RoundTrip {
		params.Set("round_trip", "true")
	}
	for _, pref := range criteria.Preferences {
		params.Add("preference", pref)
	}

	return params
}

// parseCandidates accepts both a bare array and a {"results": [...]} envelope.
func parseCandidates(body []byte) ([]map[string]any, error) {
	var bare []map[string]any
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var envelope struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unparseable provider response: %w", err)
	}

	return envelope.Results, nil
}
