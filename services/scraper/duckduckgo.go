// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// maxBodyBytes caps how much of a search response is read.
const maxBodyBytes = 1 << 20

// rawResult is one parsed DuckDuckGo result block.
type rawResult struct {
	Title      string
	Snippet    string
	LinkURL    string
	DisplayURL string
}

// parseResults extracts result blocks from DuckDuckGo's HTML interface.
// Results live in div.result elements; the title anchor carries class
// result__a, the snippet result__snippet, and the display URL
// result__url.
func parseResults(body io.Reader, maxResults int) ([]rawResult, error) {
	doc, err := html.Parse(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	var results []rawResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			r := extractResult(n)
			if r.Title != "" && r.Snippet != "" {
				results = append(results, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// extractResult pulls the title, snippet, and URLs out of one result
// div.
func extractResult(n *html.Node) rawResult {
	var r rawResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				r.Title = textContent(n)
				r.LinkURL = unwrapRedirect(attrValue(n, "href"))
			case hasClass(n, "result__snippet"):
				r.Snippet = textContent(n)
			case hasClass(n, "result__url"):
				r.DisplayURL = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	if r.DisplayURL == "" {
		r.DisplayURL = r.LinkURL
	}
	return r
}

// unwrapRedirect resolves DuckDuckGo's result redirect to the target
// URL.
func unwrapRedirect(href string) string {
	const prefix = "//duckduckgo.com/l/?uddg="
	if !strings.HasPrefix(href, prefix) {
		return href
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(href, prefix))
	if err != nil {
		return href
	}
	if idx := strings.Index(decoded, "&"); idx > 0 {
		decoded = decoded[:idx]
	}
	return decoded
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// textContent collects the text nodes under n, space separated.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
