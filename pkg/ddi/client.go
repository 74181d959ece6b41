// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package ddi is a small REST client for the cloud DDI platform
package ddi

import (
	"csv2ddi/pkg/config"
	"csv2ddi/pkg/log"
	"csv2ddi/pkg/version"

	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Lister reads collections of named objects
type Lister interface {
	List(ctx context.Context, path string, params url.Values) ([]Object, error)
}

// Creator issues object creation calls
type Creator interface {
	Create(ctx context.Context, path string, body interface{}) (*Response, error)
}

// Object is the subset of fields the migration reads back from list endpoints
type Object struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code int    `json:"code"`
}

// Response is the raw outcome of a create call
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is one the platform uses for success
func (r *Response) OK() bool {
	return OK(r.StatusCode)
}

// OK reports whether status is 200, 201 or 204
func OK(status int) bool {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return true
	}
	return false
}

// Client talks to the DDI REST API
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *log.ScopedLogger
}

// NewClient builds a client from the loaded credentials
func NewClient(cfg *config.Config) (*Client, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &Client{
		baseURL:    cfg.BaseURL(),
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: httpClient,
		logger:     log.NewScopedLogger("[ddi]", ""),
	}, nil
}

func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	if cfg.TLS.CA == "" && !cfg.TLS.SkipVerify {
		return &http.Client{Timeout: cfg.Timeout}, nil
	}
	rootCAs, _ := x509.SystemCertPool()
	if rootCAs == nil {
		rootCAs = x509.NewCertPool()
	}
	if cfg.TLS.CA != "" {
		caCert, err := os.ReadFile(cfg.TLS.CA)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CA cert %s", cfg.TLS.CA)
		}
		if !rootCAs.AppendCertsFromPEM(caCert) {
			return nil, errors.Newf("no certificates found in %s", cfg.TLS.CA)
		}
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			RootCAs:            rootCAs,
			InsecureSkipVerify: cfg.TLS.SkipVerify,
		},
	}
	return &http.Client{Transport: tr, Timeout: cfg.Timeout}, nil
}

// List fetches every object under path, following _limit/_offset paging until an
// empty page. The server may cap _limit below the requested page size.
func (c *Client) List(ctx context.Context, path string, params url.Values) ([]Object, error) {
	var all []Object
	for offset := 0; ; {
		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}
		query.Set("_limit", strconv.Itoa(c.pageSize))
		query.Set("_offset", strconv.Itoa(offset))

		resp, err := c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Newf("listing %s: %d %s", path, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
		}

		var page struct {
			Results []Object `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, errors.Wrapf(err, "decoding %s response", path)
		}
		c.logger.Trace("GET %s offset=%d returned %d objects", path, offset, len(page.Results))
		if len(page.Results) == 0 {
			break
		}
		all = append(all, page.Results...)
		offset += len(page.Results)
	}
	c.logger.Debug("Listed %d objects from %s", len(all), path)
	return all, nil
}

// Create posts body to path. Non-2xx statuses are returned in the Response, not as errors.
func (c *Client) Create(ctx context.Context, path string, body interface{}) (*Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s payload", path)
	}
	c.logger.Trace("API Request Body: %s", string(jsonBody))
	return c.do(ctx, http.MethodPost, path, jsonBody)
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("csv2ddi/%s", version.Short()))
	req.Header.Set("X-Request-ID", requestID)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	apiURL := c.apiURL(path)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, apiURL)
	}
	requestID := uuid.NewString()
	c.setHeaders(req, requestID)

	c.logger.Debug("API Request: %s %s (request id %s)", method, apiURL, requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, apiURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", apiURL)
	}
	c.logger.Debug("API Response: %s (request id %s)", resp.Status, requestID)
	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
