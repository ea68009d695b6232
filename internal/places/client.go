// Package places resolves Google place IDs to locality names.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultPlacesURL = "https://places.googleapis.com/v1"

// Service queries the Places API for address-component data.
type Service struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewService creates a places service.
func NewService(apiKey string, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		baseURL: defaultPlacesURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type placeResponse struct {
	AddressComponents []struct {
		LongText string   `json:"longText"`
		Types    []string `json:"types"`
	} `json:"addressComponents"`
}

// ResolveCity returns the locality (city) name for a place ID, in Hebrew.
// City resolution is best-effort: any failure is logged and reported as
// not-found, since it only gates the optional real-time enrichment.
func (s *Service) ResolveCity(ctx context.Context, placeID string) (string, bool) {
	if placeID == "" {
		return "", false
	}

	city, err := s.fetchCity(ctx, placeID)
	if err != nil {
		s.logger.Warn("resolving city from place id failed", "place_id", placeID, "error", err)
		return "", false
	}
	if city == "" {
		return "", false
	}
	return city, true
}

func (s *Service) fetchCity(ctx context.Context, placeID string) (string, error) {
	reqURL := s.baseURL + "/places/" + placeID + "?languageCode=he"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("building places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("X-Goog-FieldMask", "addressComponents")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching place: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var place placeResponse
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return "", fmt.Errorf("parsing places response: %w", err)
	}

	for _, component := range place.AddressComponents {
		for _, t := range component.Types {
			if t == "locality" {
				return component.LongText, nil
			}
		}
	}
	return "", nil
}
