// Package api provides types and functions to fetch the MIMIT (Italian
// Ministry of Enterprises and Made in Italy) open data fuel feeds and join
// them into priced station records.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 60 * time.Second

	DefaultRegistryURL = "https://www.mimit.gov.it/images/exportCSV/anagrafica_impianti_attivi.csv"
	DefaultPricesURL   = "https://www.mimit.gov.it/images/exportCSV/prezzo_alle_8.csv"
)

// FetchError reports a source feed that could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch data from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches the MIMIT station registry and live price feeds.
type Client struct {
	registryURL string
	pricesURL   string
	httpClient  *http.Client
}

// NewClient creates a Client against the official MIMIT feed URLs.
func NewClient() *Client {
	return NewClientWithURLs(DefaultRegistryURL, DefaultPricesURL)
}

// NewClientWithURLs creates a Client against custom feed URLs.
func NewClientWithURLs(registryURL, pricesURL string) *Client {
	return &Client{
		registryURL: registryURL,
		pricesURL:   pricesURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// FetchFeeds retrieves the raw text of both feeds concurrently. If either
// fetch fails the whole pair fails; no partial result is returned.
func (c *Client) FetchFeeds(ctx context.Context) (registry, prices string, err error) {
	type result struct {
		text string
		err  error
	}

	registryCh := make(chan result, 1)
	pricesCh := make(chan result, 1)

	go func() {
		text, err := c.fetchCSV(ctx, c.registryURL)
		registryCh <- result{text: text, err: err}
	}()
	go func() {
		text, err := c.fetchCSV(ctx, c.pricesURL)
		pricesCh <- result{text: text, err: err}
	}()

	registryRes := <-registryCh
	pricesRes := <-pricesCh

	if registryRes.err != nil {
		return "", "", registryRes.err
	}
	if pricesRes.err != nil {
		return "", "", pricesRes.err
	}

	return registryRes.text, pricesRes.text, nil
}

func (c *Client) fetchCSV(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	return string(body), nil
}
