// Package geoip resolves an IP address to a location using the ip-api.com
// JSON endpoint, with Italian locale names for regions and countries.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://ip-api.com/json/"
	DefaultTimeout = 5 * time.Second
)

// Location is the subset of the ip-api.com response the service uses.
type Location struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Client looks up IP locations.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientWithURL(DefaultBaseURL)
}

func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Locate resolves ip to a location. An empty or loopback ip resolves the
// caller's own public address, which is what ip-api.com does for a bare
// request.
func (c *Client) Locate(ctx context.Context, ip string) (*Location, error) {
	target := c.baseURL
	if ip != "" && ip != "127.0.0.1" {
		target += ip
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	q := req.URL.Query()
	q.Set("lang", "it")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching location: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var location Location
	if err := json.NewDecoder(resp.Body).Decode(&location); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}

	if location.Status == "fail" {
		return nil, fmt.Errorf("geolocation failed: %s", location.Message)
	}

	return &location, nil
}

// ClientIP extracts the caller's address from the X-Forwarded-For header
// when present, falling back to the connection's remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
