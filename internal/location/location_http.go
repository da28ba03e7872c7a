package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPProvider reads the position from a JSON geolocation endpoint.
type HTTPProvider struct {
	consent bool
	url     string
	client  *http.Client
}

func NewHTTPProvider(url string, consent bool, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{consent: consent, url: url, client: client}
}

func (p *HTTPProvider) RequestPermission(context.Context) (bool, error) {
	return p.consent, nil
}

// geoPayload accepts the common spellings used by geolocation services.
type geoPayload struct {
	Latitude  *float64 `json:"latitude"`
	Lat       *float64 `json:"lat"`
	Longitude *float64 `json:"longitude"`
	Lon       *float64 `json:"lon"`
	Lng       *float64 `json:"lng"`
	Accuracy  *float64 `json:"accuracy"`
}

func (p *HTTPProvider) CurrentPosition(ctx context.Context) (Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Reading{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Reading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reading{}, fmt.Errorf("geolocation endpoint returned %d", resp.StatusCode)
	}

	var payload geoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Reading{}, fmt.Errorf("decode geolocation response: %w", err)
	}

	lat := firstOf(payload.Latitude, payload.Lat)
	lon := firstOf(payload.Longitude, payload.Lon, payload.Lng)
	if lat == nil || lon == nil {
		return Reading{}, fmt.Errorf("geolocation response has no coordinates")
	}

	return Reading{
		Latitude:  *lat,
		Longitude: *lon,
		Accuracy:  payload.Accuracy,
		Timestamp: time.Now().UTC(),
	}, nil
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
