// Package supabase is a small client for the Supabase REST (PostgREST) API
// covering the table operations the record store needs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"placar/pkg/logger"
)

// Error is a non-2xx response from the REST API
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("supabase returned status %d: %s", e.StatusCode, e.Message)
}

// Client handles all interactions with the Supabase REST API
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Supabase client authenticating with the service role key
func NewClient(baseURL, serviceKey string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Eq builds an equality filter value
func Eq(value string) string {
	return "eq." + value
}

// In builds a membership filter value
func In(values ...string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

// EitherEq builds an or filter matching value on any of the given columns
func EitherEq(value string, columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf(`%s.eq."%s"`, c, strings.ReplaceAll(value, `"`, `\"`))
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Select reads rows of table matching query into out, which must point to a slice
func (c *Client) Select(ctx context.Context, table string, query url.Values, out interface{}) error {
	q := cloneValues(query)
	if q.Get("select") == "" {
		q.Set("select", "*")
	}
	_, err := c.do(ctx, http.MethodGet, table, q, nil, nil, out)
	return err
}

// Insert adds row to table, decoding the created rows into out when non-nil
func (c *Client) Insert(ctx context.Context, table string, row interface{}, out interface{}) error {
	_, err := c.do(ctx, http.MethodPost, table, nil, row, representation(), out)
	return err
}

// Update patches the rows of table matching filter and returns how many changed
func (c *Client) Update(ctx context.Context, table string, filter url.Values, patch interface{}) (int, error) {
	var rows []json.RawMessage
	if _, err := c.do(ctx, http.MethodPatch, table, filter, patch, representation(), &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Delete removes the rows of table matching filter and returns how many were removed
func (c *Client) Delete(ctx context.Context, table string, filter url.Values) (int, error) {
	var rows []json.RawMessage
	if _, err := c.do(ctx, http.MethodDelete, table, filter, nil, representation(), &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Count returns the number of rows of table matching filter
func (c *Client) Count(ctx context.Context, table string, filter url.Values) (int, error) {
	headers := http.Header{}
	headers.Set("Prefer", "count=exact")

	resp, err := c.do(ctx, http.MethodHead, table, filter, nil, headers, nil)
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

// Health checks that the REST endpoint answers with the configured key
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach supabase: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body interface{}, headers http.Header, out interface{}) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call supabase: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log := c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"table":       table,
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if len(respBody) > 0 {
			_ = json.Unmarshal(respBody, apiErr)
		}
		log.WithError(apiErr).Warn("Supabase request failed")
		return nil, apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.WithField("response_body", string(respBody)).Error("Failed to parse Supabase response")
			return nil, fmt.Errorf("failed to parse supabase response: %w", err)
		}
	}

	log.Debug("Supabase request completed")
	return resp, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

func representation() http.Header {
	h := http.Header{}
	h.Set("Prefer", "return=representation")
	return h
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for key, values := range v {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// parseContentRangeTotal extracts N from "0-9/N" or "*/N"
func parseContentRangeTotal(header string) (int, error) {
	i := strings.LastIndex(header, "/")
	if i < 0 || i == len(header)-1 {
		return 0, fmt.Errorf("missing total in Content-Range %q", header)
	}
	total, err := strconv.Atoi(header[i+1:])
	if err != nil {
		return 0, fmt.Errorf("invalid total in Content-Range %q: %w", header, err)
	}
	return total, nil
}
