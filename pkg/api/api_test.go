package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchFeeds(t *testing.T) {
	registrySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("registry-data"))
	}))
	defer registrySrv.Close()

	pricesSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("prices-data"))
	}))
	defer pricesSrv.Close()

	client := NewClientWithURLs(registrySrv.URL, pricesSrv.URL)

	registry, prices, err := client.FetchFeeds(context.Background())
	if err != nil {
		t.Fatalf("FetchFeeds() failed: %v", err)
	}
	if registry != "registry-data" {
		t.Errorf("unexpected registry body: %q", registry)
	}
	if prices != "prices-data" {
		t.Errorf("unexpected prices body: %q", prices)
	}
}

func TestFetchFeedsFailsOnNonSuccessStatus(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer okSrv.Close()

	brokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer brokenSrv.Close()

	// Either feed failing fails the whole pair.
	client := NewClientWithURLs(okSrv.URL, brokenSrv.URL)
	if _, _, err := client.FetchFeeds(context.Background()); err == nil {
		t.Fatal("expected error when the prices feed fails")
	}

	client = NewClientWithURLs(brokenSrv.URL, okSrv.URL)
	_, _, err := client.FetchFeeds(context.Background())
	if err == nil {
		t.Fatal("expected error when the registry feed fails")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.URL != brokenSrv.URL {
		t.Errorf("FetchError.URL = %q, expected %q", fetchErr.URL, brokenSrv.URL)
	}
}

func TestFetchFeedsTimeout(t *testing.T) {
	slowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slowSrv.Close()

	client := &Client{
		registryURL: slowSrv.URL,
		pricesURL:   slowSrv.URL,
		httpClient:  &http.Client{Timeout: 20 * time.Millisecond},
	}

	_, _, err := client.FetchFeeds(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
}

func TestFetchFeedsContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClientWithURLs(srv.URL, srv.URL)
	if _, _, err := client.FetchFeeds(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
