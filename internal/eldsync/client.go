package eldsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Client is an authenticated ELD provider API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new provider client using the provided token and config.
func NewClient(ctx context.Context, baseURL string, tok *oauth2.Token, cfg *oauth2.Config) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, &savingTokenSource{ts: ts}),
	}
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts oauth2.TokenSource
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = saveToken(tok)
	return tok, nil
}

// DutyStatusRecord is one duty-status change as reported by the provider.
type DutyStatusRecord struct {
	ID        string `json:"id"`
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
	// RecordedAt is an RFC3339 timestamp.
	RecordedAt string `json:"recorded_at"`
	// Status is the provider's duty-status code: "OFF", "SB", "D" or "ON".
	Status string `json:"status"`
	// Origin distinguishes automatic from driver-edited records.
	Origin     string `json:"origin"` // "auto", "driver", "assumed"
	Location   string `json:"location,omitempty"`
	Annotation string `json:"annotation,omitempty"`
}

// dutyStatusResponse is the provider's paged response.
type dutyStatusResponse struct {
	Records    []DutyStatusRecord `json:"records"`
	NextCursor string             `json:"next_cursor"`
}

// GetDutyStatus fetches the driver's duty-status records in [from, to),
// following pagination cursors until exhausted.
func (c *Client) GetDutyStatus(ctx context.Context, driverID string, from, to time.Time) ([]DutyStatusRecord, error) {
	query := url.Values{}
	query.Set("driver_id", driverID)
	query.Set("start", from.UTC().Format(time.RFC3339))
	query.Set("end", to.UTC().Format(time.RFC3339))

	var all []DutyStatusRecord
	for {
		endpoint := c.baseURL + "/v1/hos/duty_status?" + query.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ELD API request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ELD API error %d: %s", resp.StatusCode, string(body))
		}

		var page dutyStatusResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding ELD response: %w", err)
		}

		all = append(all, page.Records...)
		if page.NextCursor == "" {
			return all, nil
		}
		query.Set("cursor", page.NextCursor)
	}
}
