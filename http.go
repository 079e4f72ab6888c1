package main

import (
	"context"
	"net/http"
	"time"
)

const httpUserAgent = "Fortnite-Shop-Bot/1.0"

// HTTPGet performs an HTTP GET request with context and a bounded timeout.
func HTTPGet(ctx context.Context, url string) (*http.Response, error) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", httpUserAgent)
	req.Header.Set("Accept", "application/json")

	return client.Do(req)
}
