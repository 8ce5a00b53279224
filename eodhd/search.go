package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// SearchResult is one match from the EODHD search API. Symbol is the
// "CODE.EXCHANGE" ticker expected by Closes.
type SearchResult struct {
	Symbol   string
	Name     string
	Type     string
	Currency string
	ISIN     string
}

// Search looks securities up by name, ticker or ISIN.
func Search(ctx context.Context, c *Client, term string) ([]SearchResult, error) {
	// https://eodhd.com/api/search/apple?api_token=demo&fmt=json
	addr := fmt.Sprintf("%s/api/search/%s?fmt=json&api_token=%s",
		c.baseURL, url.PathEscape(term), url.QueryEscape(c.apiKey))

	var jobj any
	if err := jwget(ctx, c.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("searching %q: %w", term, err)
	}

	items, err := jsonpath.Get("$[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing search response for %q: %w", term, err)
	}
	list, ok := items.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected search response for %q", term)
	}

	results := make([]SearchResult, 0, len(list))
	for _, item := range list {
		r := SearchResult{
			Symbol:   jstring(item, "$.Code") + "." + jstring(item, "$.Exchange"),
			Name:     jstring(item, "$.Name"),
			Type:     jstring(item, "$.Type"),
			Currency: jstring(item, "$.Currency"),
			ISIN:     jstring(item, "$.ISIN"),
		}
		results = append(results, r)
	}
	return results, nil
}

// jstring extracts a string at path, or "" when absent or not a string.
func jstring(jobj any, path string) string {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return ""
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer, keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, _ := jval.(string)
	return s
}
