// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Getter performs a GET request and JSON-decodes the response into target.
type Getter interface {
	Get(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string) (int, error)
}

// IsRemote reports whether the route source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch downloads a GeoJSON document from the given URL and returns its route.
func Fetch(ctx context.Context, client Getter, endpoint string) (Route, error) {
	var doc json.RawMessage
	if _, err := client.Get(ctx, endpoint, &doc, nil, nil); err != nil {
		return Route{}, fmt.Errorf("failed to fetch route: %w", err)
	}
	return FromGeoJSON(doc)
}
