// Package remote is a core.Store that talks to the LIS master-data HTTP
// service.
//
// Endpoints, relative to the base URL:
//
//	GET    /master-data/{category}        list
//	POST   /master-data/{category}        create
//	PUT    /master-data/{category}/{id}   update
//	DELETE /master-data/{category}/{id}   delete
//
// Bodies are JSON records. Responses may be bare or wrapped in {"data": ...}.
package remote

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

	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/persistence"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept in the message.
const maxErrorBody = 512

// Config configures the client.
type Config struct {
	BaseURL string
	Token   string // Sent as a bearer token when set
	Timeout time.Duration
}

// Store implements core.Store over HTTP.
type Store struct {
	baseURL string
	token   string
	client  *http.Client
}

// New returns a store for cfg.BaseURL.
func New(cfg Config) (*Store, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps statuses onto the persistence sentinels.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return persistence.ErrNotFound
	case e.StatusCode >= 500:
		return persistence.ErrUnavailable
	}
	return nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context, category string) ([]core.Record, error) {
	var out []core.Record
	if err := s.do(ctx, http.MethodGet, categoryPath(category), nil, &out); err != nil {
		return nil, persistence.Wrap("list", category, "", err)
	}
	return out, nil
}

// Create implements core.Store.
func (s *Store) Create(ctx context.Context, category string, rec core.Record) (core.Record, error) {
	var out core.Record
	if err := s.do(ctx, http.MethodPost, categoryPath(category), rec, &out); err != nil {
		return nil, persistence.Wrap("create", category, "", err)
	}
	return out, nil
}

// Update implements core.Store.
func (s *Store) Update(ctx context.Context, category, id string, rec core.Record) (core.Record, error) {
	var out core.Record
	if err := s.do(ctx, http.MethodPut, recordPath(category, id), rec, &out); err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}
	return out, nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, category, id string) error {
	if err := s.do(ctx, http.MethodDelete, recordPath(category, id), nil, nil); err != nil {
		return persistence.Wrap("delete", category, id, err)
	}
	return nil
}

func categoryPath(category string) string {
	return "/master-data/" + url.PathEscape(category)
}

func recordPath(category, id string) string {
	return categoryPath(category) + "/" + url.PathEscape(id)
}

func (s *Store) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return decode(raw, out)
}

// decode unmarshals raw into out, unwrapping a {"data": ...} envelope.
// Numbers decode as json.Number.
func decode(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	if raw[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			raw = env.Data
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
