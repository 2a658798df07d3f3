// Package geo is the HTTP client for the external AI service that
// handles geocoding, location suggestions and scanned-notice analysis.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"offerlens/internal/domain"
)

const (
	// SuggestMinLen is the minimum query length before the upstream is
	// consulted at all; shorter inputs short-circuit to an empty list.
	SuggestMinLen = 3
	// SuggestMax caps the suggestion list.
	SuggestMax = 5

	requestTimeout = 10 * time.Second
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// ReverseGeocode resolves coordinates to a city name, "" if unknown.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	var out struct {
		City string `json:"city"`
	}
	if err := c.getJSON(ctx, "/v1/reverse", q, &out); err != nil {
		return "", err
	}
	return out.City, nil
}

// GeocodeLocation resolves free text to coordinates, nil if not found.
func (c *Client) GeocodeLocation(ctx context.Context, text string) (*domain.Coords, error) {
	q := url.Values{}
	q.Set("q", text)
	var out struct {
		Found bool    `json:"found"`
		Lat   float64 `json:"lat"`
		Lng   float64 `json:"lng"`
	}
	if err := c.getJSON(ctx, "/v1/geocode", q, &out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, nil
	}
	return &domain.Coords{Lat: out.Lat, Lng: out.Lng}, nil
}

// LocationSuggestions returns up to SuggestMax completions for a
// partial location input. Inputs shorter than SuggestMinLen runes never
// reach the upstream.
func (c *Client) LocationSuggestions(ctx context.Context, partial string) ([]string, error) {
	if utf8.RuneCountInString(partial) < SuggestMinLen {
		return []string{}, nil
	}
	q := url.Values{}
	q.Set("q", partial)
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.getJSON(ctx, "/v1/suggest", q, &out); err != nil {
		return nil, err
	}
	if len(out.Suggestions) > SuggestMax {
		out.Suggestions = out.Suggestions[:SuggestMax]
	}
	return out.Suggestions, nil
}

// AnalyzeImage sends a base64-encoded photo of a notice and returns the
// extracted offer fields. Unlike the lookups above, its error carries
// the upstream message and is meant to reach the user.
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64 string) (domain.OfferDraft, error) {
	var draft domain.OfferDraft
	if err := c.limiter.Wait(ctx); err != nil {
		return draft, err
	}

	body, _ := json.Marshal(map[string]string{"image": imageBase64})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return draft, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return draft, fmt.Errorf("analyze image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return draft, fmt.Errorf("analyze image: %s", e.Error)
		}
		return draft, fmt.Errorf("analyze image: status %d", resp.StatusCode)
	}
	var out struct {
		Offer domain.OfferDraft `json:"offer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return draft, fmt.Errorf("analyze image decode: %w", err)
	}
	return out.Offer, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geo %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geo %s decode: %w", path, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
