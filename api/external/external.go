/* external.go
 * Contains the logic used to fetch fixture and result data from the external feed API,
 * and return the results to the higher level functions. Requests run through a shared
 * rate limiter to stay inside the feed's request budget
 * Authors: Zachary Bower
 */

package external

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"prediction-league/api/shared"

	"golang.org/x/time/rate"
)

// One request a second with small bursts; the feed throttles anything above this
var limiter = rate.NewLimiter(rate.Every(time.Second), 3)

// FetchFixtures fetches the full fixture list for a tournament and converts it to the
// shared domain model
// Preconditions: Receives a context, the feed base URL, the API key and the tournament slug
// Postconditions: Returns the matches sorted by kickoff time, or an error if it occurs
func FetchFixtures(ctx context.Context, baseURL string, apiKey string, tournament string) ([]shared.Match, error) {
	url := fmt.Sprintf("%s/v1/tournaments/%s/fixtures", baseURL, tournament)

	payload, err := getJSON(ctx, url, apiKey)
	if err != nil {
		return nil, fmt.Errorf("error fetching fixtures from feed: %w", err)
	}

	var response FeedResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, fmt.Errorf("error decoding fixtures payload: %w", err)
	}

	matches := ParseFixtures(response.Fixtures)

	// Sort slice by kickoff time
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Kickoff.Before(matches[j].Kickoff)
	})

	return matches, nil
}

// getJSON performs one rate-limited GET against the feed and returns the raw body
// Preconditions: Receives a context, the request URL and the API key
// Postconditions: Returns the response body bytes, or an error if it occurs
func getJSON(ctx context.Context, url string, apiKey string) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// Create HTTP Request
	client := &http.Client{Timeout: 15 * time.Second}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Headers to comply with API requirements
	request.Header.Set("User-Agent", "PredictionLeagueFetcher/1.0")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", "gzip")
	if apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+apiKey)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", response.StatusCode)
	}

	var body []byte
	if response.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
		body, err = io.ReadAll(reader)
		if err != nil {
			return nil, err
		}
	} else {
		body, err = io.ReadAll(response.Body)
		if err != nil {
			return nil, err
		}
	}

	return body, nil
}
