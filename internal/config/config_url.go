// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package config

import (
	"fmt"
	"net/url"
)

// validateAPIBaseURL validates that the upstream base URL is properly formatted.
// Unlike a plain host URL, the base URL may carry a path prefix (e.g. /api)
// because request paths are joined onto it. Query parameters and fragments are
// rejected since they would corrupt every joined request URL.
func validateAPIBaseURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %q", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:5000, api.example.com)")
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("base URL should not contain query parameters, remove: ?%s", parsedURL.RawQuery)
	}

	if parsedURL.Fragment != "" {
		return fmt.Errorf("base URL should not contain a fragment, remove: #%s", parsedURL.Fragment)
	}

	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, 192.168.1.100:4222, nats.example.com)")
	}

	return nil
}
