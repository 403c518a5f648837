// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fetch is the import capability of source nodes: it downloads web
// pages and feeds and reduces them to plain text.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"golang.org/x/net/html/charset"
	"resty.dev/v3"
)

// ErrFetch wraps every failure to retrieve or decode remote content.
var ErrFetch = errors.New("fetch failed")

const defaultUserAgent = "contentgrid/1.0 (+https://github.com/specialistvlad/contentgrid)"

// Client downloads remote content over HTTP.
type Client struct {
	http *resty.Client
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Client{
		http: resty.New().
			SetTimeout(opts.Timeout).
			SetHeader("User-Agent", opts.UserAgent),
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	logger := ctxlog.FromContext(ctx).With("url", url)
	logger.Debug("Fetching remote content.")

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("%w: %s: unexpected status %d", ErrFetch, url, resp.StatusCode())
	}
	body := resp.Bytes()
	logger.Debug("Remote content fetched.", "status", resp.StatusCode(), "bytes", len(body))
	return body, resp.Header().Get("Content-Type"), nil
}

// FetchText downloads url and returns its readable text, decoded to UTF-8
// from the charset of the Content-Type header or the document's meta tag.
// HTML documents are reduced with ExtractText; any other body is returned
// as is.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	body, contentType, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	if isHTML(contentType, body) {
		text, err := ExtractText(r)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
		}
		return text, nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	return strings.TrimSpace(string(decoded)), nil
}

// FetchFeed downloads and parses an RSS or Atom feed.
func (c *Client) FetchFeed(ctx context.Context, url string) (*Feed, error) {
	body, _, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	feed, err := ParseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	return feed, nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			return mt == "text/html" || mt == "application/xhtml+xml"
		}
	}
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
