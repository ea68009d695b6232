package realtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kavim-app/kavim/internal/models"
)

const defaultFeedURL = "https://curlbus.app"

// FeedService fetches live arrivals for a stop code from the curlbus feed.
type FeedService struct {
	baseURL string
	client  *http.Client
}

// NewFeedService creates a feed service. The timeout is deliberately short:
// the feed is an optional enrichment and must never hold up route building.
func NewFeedService(timeout time.Duration) *FeedService {
	return &FeedService{
		baseURL: defaultFeedURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetArrivals fetches the raw per-stop feed text and extracts arrivals for one
// route. Transport failures and non-2xx responses are returned to the caller;
// converting them into a no_realtime sentinel is the orchestrator's job.
func (s *FeedService) GetArrivals(ctx context.Context, stopCode, routeFilter string) (*models.RealTimeInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+stopCode, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed response: %w", err)
	}

	arrivals := ParseArrivals(string(body), routeFilter)

	info := &models.RealTimeInfo{
		Status:   models.StatusSuccess,
		Arrivals: arrivals,
	}
	if len(arrivals) > 0 {
		info.NextArrival = arrivals[0]
	}
	return info, nil
}
