package backstage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const certificationsQuery = `query getAllCertifications($entityRef: String!) {
  certifications(entityRef: $entityRef, includeFilteredChecks: false) {
    entityRef
    track { id name description }
    levels {
      ordinal
      name
      checks { id name result details }
    }
  }
}`

// Client talks to a Backstage instance's soundcheck APIs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a Backstage client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Certifications fetches the full track data for a team via the
// GraphQL API the Backstage UI uses.
func (c *Client) Certifications(
	ctx context.Context,
	team string,
) ([]Certification, error) {
	req := graphqlRequest{
		Query: certificationsQuery,
		Variables: map[string]string{
			"entityRef": "group:default/" + team,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling graphql query: %w", err)
	}

	var resp graphqlResponse
	err = c.do(ctx, http.MethodPost, "/api/soundcheck/graphql", body, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf(
			"graphql query failed: %s", resp.Errors[0].Message,
		)
	}

	return resp.Data.Certifications, nil
}

// Results fetches the raw check results for a team via the REST API.
func (c *Client) Results(
	ctx context.Context,
	team string,
) ([]ResultEntry, error) {
	path := "/api/soundcheck/results?entityRef=" +
		url.QueryEscape("group:default/"+team)

	var resp resultsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Results, nil
}

// do issues an HTTP request with retry and exponential backoff on
// transient failures.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body []byte,
	result interface{},
) error {
	fullURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("executing request %s %s: %w", method, path, err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("reading response body: %w", readErr)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= 500 {
			lastErr = fmt.Errorf(
				"transient status %d on %s %s", resp.StatusCode, method, path,
			)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf(
				"unexpected status %d on %s %s: %s",
				resp.StatusCode, method, path, string(respBody),
			)
		}

		if result == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w", method, path, err,
			)
		}
		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}
