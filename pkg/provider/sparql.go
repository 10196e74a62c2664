package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/aurel42/zonepoi/pkg/request"
)

// sparqlValue is one SPARQL JSON-results binding value.
type sparqlValue struct {
	Value string `json:"value"`
}

func sparqlVal(b map[string]sparqlValue, key string) string {
	return b[key].Value
}

// querySPARQL POSTs query to endpoint and decodes the "bindings" array of
// the response token by token, one binding at a time.
func querySPARQL(ctx context.Context, client *request.Client, endpoint, query string) ([]map[string]sparqlValue, error) {
	form := url.Values{}
	form.Set("query", query)
	form.Set("format", "json")

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/sparql-results+json",
	}

	body, err := client.PostWithHeaders(ctx, endpoint, []byte(form.Encode()), headers)
	if err != nil {
		return nil, fmt.Errorf("sparql query failed: %w", err)
	}

	return decodeSPARQLBindings(strings.NewReader(string(body)))
}

func decodeSPARQLBindings(r io.Reader) ([]map[string]sparqlValue, error) {
	dec := json.NewDecoder(r)

	found := false
	for {
		t, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("json stream error: %w", err)
		}
		if s, ok := t.(string); ok && s == "bindings" {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("expected array open: %w", err)
	}

	var bindings []map[string]sparqlValue
	for dec.More() {
		var b map[string]sparqlValue
		if err := dec.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode binding: %w", err)
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

func parseFloatOrZero(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
