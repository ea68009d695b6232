// Package routing calls the Google Routes API for transit directions.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

// fieldMask restricts the reply to transit details and endpoint geocoding;
// everything else (polylines, fares, warnings) is dead weight here.
const fieldMask = "routes.legs.steps.transitDetails,geocodingResults"

// ErrMalformed marks a directions reply that did not match the expected shape.
// Callers treat it as "no routes" rather than a hard failure.
var ErrMalformed = errors.New("malformed directions response")

// Service is the Routes API client.
type Service struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewService creates a directions client.
func NewService(apiKey string, timeout time.Duration) *Service {
	return &Service{
		baseURL: defaultRoutesURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type computeRoutesRequest struct {
	LanguageCode             string             `json:"languageCode"`
	Origin                   waypoint           `json:"origin"`
	Destination              waypoint           `json:"destination"`
	TravelMode               string             `json:"travelMode"`
	ComputeAlternativeRoutes bool               `json:"computeAlternativeRoutes"`
	TransitPreferences       transitPreferences `json:"transitPreferences"`
}

type waypoint struct {
	Address string `json:"address"`
}

type transitPreferences struct {
	RoutingPreference  string   `json:"routingPreference"`
	AllowedTravelModes []string `json:"allowedTravelModes"`
}

// ComputeRoutes requests transit routes with alternatives between two
// addresses. Transport failures and non-2xx statuses are returned as errors:
// the directions call is the one mandatory upstream and nothing downstream can
// substitute for it. A reply that is not valid JSON of the expected shape is
// reported as ErrMalformed.
func (s *Service) ComputeRoutes(ctx context.Context, origin, destination string) (*ComputeRoutesResponse, error) {
	payload, err := json.Marshal(computeRoutesRequest{
		LanguageCode:             "he-IL",
		Origin:                   waypoint{Address: origin},
		Destination:              waypoint{Address: destination},
		TravelMode:               "TRANSIT",
		ComputeAlternativeRoutes: true,
		TransitPreferences: transitPreferences{
			RoutingPreference:  "LESS_WALKING",
			AllowedTravelModes: []string{"BUS", "TRAIN", "LIGHT_RAIL", "RAIL"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding directions request: %w", err)
	}

	body, err := s.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var parsed ComputeRoutesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &parsed, nil
}

// post sends the request, retrying transient gateway errors with exponential
// backoff. Everything else is permanent.
func (s *Service) post(ctx context.Context, payload []byte) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building directions request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", s.apiKey)
		req.Header.Set("X-Goog-FieldMask", fieldMask)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("calling directions API: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			return fmt.Errorf("directions API returned transient status %d", resp.StatusCode)
		default:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("directions API returned status %d: %s", resp.StatusCode, msg))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading directions response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
