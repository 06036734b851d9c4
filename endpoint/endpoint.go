// Package endpoint speaks the SPARQL 1.1 protocol over HTTP: queries
// and updates go out as form-encoded POST requests, results come back
// as SPARQL JSON or Turtle.
package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/sparq/fold"
)

// Endpoint executes compiled query text against a store.
type Endpoint interface {
	// Select runs a row-producing query and returns the flat rows.
	Select(ctx context.Context, query string) ([]fold.Row, error)
	// Ask runs an existence check.
	Ask(ctx context.Context, query string) (bool, error)
	// Construct runs a graph-producing query and returns the
	// serialized graph (Turtle).
	Construct(ctx context.Context, query string) (string, error)
	// Update runs an update operation.
	Update(ctx context.Context, update string) error
}

// StatusError reports a non-success HTTP response from the store.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("endpoint returned %d: %s", e.Code, body)
}

// Client is an Endpoint over one HTTP query URL, with an optional
// separate update URL for stores that split the two.
type Client struct {
	queryURL  string
	updateURL string
	http      *http.Client
}

var _ Endpoint = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUpdateURL routes updates to a separate URL.
func WithUpdateURL(u string) Option {
	return func(c *Client) { c.updateURL = u }
}

// NewClient creates a Client for the given query URL. Updates go to
// the same URL unless WithUpdateURL is set.
func NewClient(queryURL string, opts ...Option) *Client {
	c := &Client{
		queryURL:  queryURL,
		updateURL: queryURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resultsDocument is the SPARQL JSON results format. Boolean is only
// present for ask responses.
type resultsDocument struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]bindingValue `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

type bindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

func (c *Client) Select(ctx context.Context, query string) ([]fold.Row, error) {
	doc, err := c.queryJSON(ctx, query)
	if err != nil {
		return nil, err
	}
	rows := make([]fold.Row, 0, len(doc.Results.Bindings))
	for _, binding := range doc.Results.Bindings {
		row := make(fold.Row, len(binding))
		for v, val := range binding {
			row[v] = val.Value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	doc, err := c.queryJSON(ctx, query)
	if err != nil {
		return false, err
	}
	if doc.Boolean == nil {
		return false, fmt.Errorf("ask response carries no boolean")
	}
	return *doc.Boolean, nil
}

func (c *Client) Construct(ctx context.Context, query string) (string, error) {
	body, err := c.post(ctx, c.queryURL, "query", query, "text/turtle")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) Update(ctx context.Context, update string) error {
	_, err := c.post(ctx, c.updateURL, "update", update, "")
	return err
}

func (c *Client) queryJSON(ctx context.Context, query string) (*resultsDocument, error) {
	body, err := c.post(ctx, c.queryURL, "query", query, "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	var doc resultsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &doc, nil
}

func (c *Client) post(ctx context.Context, target, field, text, accept string) ([]byte, error) {
	form := url.Values{field: []string{text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
